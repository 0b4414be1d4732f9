/*
main.go - Application entry point

PURPOSE:
  The holidays command computes public holidays from the terminal and
  serves them over HTTP.

COMMANDS:
  holidays serve                       Start the HTTP API
  holidays list <region> [year]        Print a region's holidays
  holidays check <region> <date>       Is a date a holiday?
  holidays regions                     List known regions

GLOBAL FLAGS:
  -c, --config        YAML configuration file (see config/config.go)
      --db            SQLite database path; list/check then include stored calendars
      --locale        Display locale (default: config default_locale)
      --translations  Directory of extra name files layered over the built-in table
      --log-level     debug, info, warn, error

EXAMPLES:
  holidays list Chile 2017 --locale es_CL
  holidays check CL-AP 2017-06-07
  holidays serve -c ./holidays.yml --db ./data/holidays.db

SEE ALSO:
  - api/server.go: Router configuration
  - config/config.go: Configuration file
*/
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
