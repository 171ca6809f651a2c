// Command gups-summary prints the runs recorded in a gups JSON result log.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/LynnColeArt/gups"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout))
}

func run(args []string, out io.Writer) int {
	log.SetFlags(0)
	log.SetPrefix("gups-summary: ")

	fs := flag.NewFlagSet("gups-summary", flag.ContinueOnError)
	var (
		file = fs.String("file", "", "result log to summarize (default: latest in -dir)")
		dir  = fs.String("dir", "gups_logs", "directory searched for the latest result log")
	)
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 1
	}

	path := *file
	if path == "" {
		var err error
		path, err = gups.LatestLogFile(*dir)
		if err != nil {
			fmt.Fprintln(fs.Output(), "Usage: gups-summary [-file <log.json>] [-dir <log directory>]")
			log.Print(err)
			return 1
		}
	}

	runs, err := gups.ReadLog(path)
	if err != nil {
		log.Print(err)
		return 1
	}
	gups.Summarize(out, filepath.Base(path), runs)
	return 0
}
