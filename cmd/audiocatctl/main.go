// cmd/audiocatctl/main.go
//
// Operator CLI for the audiocat site.
//
// Commands
// --------
//
//	audiocatctl migrate [up|status]   apply or list SQL schema migrations
//	audiocatctl licensekey add ...    record one license-key submission
//	audiocatctl routes                print the active route table
//
// Every command reads the same configuration as cmd/web, so
// AUDIOCAT_ROOT and AUDIOCAT_* overrides apply here too.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
