package config

// Network constants
const (
	// HTTP Server Port - web UI and JSON API
	// Selected to avoid common development ports like 8080, 3000, 5000
	HTTP_SERVER_PORT = 2852

	// Default bind address
	DEFAULT_SERVER_ADDRESS = "0.0.0.0"

	// Localhost address for development
	LOCALHOST_ADDRESS = "127.0.0.1"
)

// Remote database constants. The database file is published to a fixed
// Google Drive folder by the ingestion pipeline; the server only ever
// reads this one file.
const (
	// Parent folder that holds the published database file
	DRIVE_FOLDER_ID = "1L0E2fSEAYrpzHV3Jwt1nznjTUJAKQcV_"

	// Exact name of the database file inside the folder
	DRIVE_DB_NAME = "pricecatcher.duckdb"

	// Chunk size for the sequential download (1 MiB)
	DOWNLOAD_CHUNK_SIZE = 1024 * 1024
)

// DuckDB session limits applied to every opened database
const (
	DUCKDB_MEMORY_LIMIT = "4GB"
	DUCKDB_THREADS      = 4
)

// Port validation constants
const (
	MIN_PORT = 1
	MAX_PORT = 65535
)

// IsValidPort checks if a port number is within valid range
func IsValidPort(port int) bool {
	return port >= MIN_PORT && port <= MAX_PORT
}
