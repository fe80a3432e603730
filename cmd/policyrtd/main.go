// Command policyrtd runs the runtime policy execution engine's session
// server and provides CLI tooling for the asset-language policy catalog
// it serves.
//
// Usage:
//
//	# Start the session server with default configuration
//	policyrtd run
//
//	# Start with a custom configuration file
//	policyrtd run --config /path/to/config.yaml
//
//	# Validate an asset-language policy file
//	policyrtd lint --file policies/deny-exfil.yaml
//
//	# Show version information
//	policyrtd version
package main

func main() {
	Execute()
}
