// Package config handles loading and parsing the Novelia client configuration.
//
// # Configuration Discovery
//
// The Load function follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/novelia/config.toml (default)
//  3. If the config file doesn't exist, fall back to hardcoded defaults
//  4. NOVELIA_* environment variables (and a .env file in the working
//     directory, loaded via godotenv) override everything else
//
// # TOML Format
//
// Example config.toml:
//
//	api_url = "https://novelia.onrender.com/api"
//	media_url = "https://novelia.onrender.com"
//	upload_url = "https://api.cloudinary.com/v1_1/dcw1m1rak/auto/upload"
//	upload_preset = "book_uploads"
//	download_dir = "~/Downloads"
//
// All fields are optional. Tilde expansion is performed automatically for
// filesystem paths. Missing config files are NOT an error - defaults point
// at a local development backend, so the client works out of the box.
//
// The package is read-only and stateless: configuration is loaded once at
// startup and returned as an immutable Config struct.
package config
