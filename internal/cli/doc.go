// Package cli turns the mfadapter command line into an app.Config. Each
// subcommand owns a flag set; usage mistakes surface as an ExitError carrying
// exit code 2, and help requests ask the caller to exit cleanly.
package cli
