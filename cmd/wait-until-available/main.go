package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
)

// Usage example on the command line:
// > go run main.go --url=http://localhost:8080/contacts --timeout=2m
func main() {
	if err := newWaitCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newWaitCmd() *cobra.Command {
	var url string
	var interval, timeout time.Duration
	cmd := &cobra.Command{
		Use:          "wait-until-available",
		Short:        "Wait until the contacts service answers requests",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return waitUntilAvailable(cmd, url, interval, timeout)
		},
	}
	cmd.Flags().StringVar(&url, "url", "http://localhost:8080/contacts", "the URL to poll")
	cmd.Flags().DurationVar(&interval, "interval", 5*time.Second, "the time between two requests")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "give up after this time (0 waits forever)")
	return cmd
}

// waitUntilAvailable polls the URL until the service responds without a server error. An empty
// address book answers 404, which still counts as available.
func waitUntilAvailable(cmd *cobra.Command, url string, interval, timeout time.Duration) error {
	var totalWaitTime time.Duration
	for {
		res, err := http.Get(url)
		if err == nil {
			res.Body.Close()
			if res.StatusCode < http.StatusInternalServerError {
				cmd.Println(res.Status)
				return nil
			}
			cmd.Println(res.Status)
		} else {
			cmd.Println(err)
		}
		if timeout > 0 && totalWaitTime+interval > timeout {
			return fmt.Errorf("%s not available after %s", url, totalWaitTime)
		}
		totalWaitTime += interval
		cmd.Printf("Waiting %s\n", totalWaitTime)
		time.Sleep(interval)
	}
}
