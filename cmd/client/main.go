package main

import (
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"gitlab.com/dirk.krummacker/contacts-book/pkg/model"
)

// Usage example on the command line:
// > go run main.go --url=http://localhost:8080
func main() {
	if err := newClientCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newClientCmd() *cobra.Command {
	var baseURL string
	var sizes []int
	cmd := &cobra.Command{
		Use:          "client",
		Short:        "Measure the response times of the contacts service",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := checkSizes(sizes); err != nil {
				return err
			}
			return benchmark(cmd.OutOrStdout(), http.DefaultClient, baseURL, sizes)
		},
	}
	cmd.Flags().StringVar(&baseURL, "url", "http://localhost:8080", "base URL of the service")
	cmd.Flags().IntSliceVar(&sizes, "requests", []int{1000, 5000, 10000}, "number of requests per round")
	return cmd
}

// checkSizes rejects rounds without requests, which have no average.
func checkSizes(sizes []int) error {
	for _, loops := range sizes {
		if loops < 1 {
			return fmt.Errorf("invalid number of requests %d, must be at least 1", loops)
		}
	}
	return nil
}

// benchmark sends rounds of GET requests to each endpoint and prints the average response time in
// microseconds. The names for single contact requests are taken from the full list.
func benchmark(out io.Writer, client *http.Client, baseURL string, sizes []int) error {
	body, _, err := sendRequest(client, baseURL+"/contacts")
	if err != nil {
		return err
	}
	var contacts []model.Contact
	if err := json.Unmarshal(body, &contacts); err != nil {
		return fmt.Errorf("could not unmarshal JSON: %w", err)
	}
	if len(contacts) == 0 {
		return fmt.Errorf("no contacts to request")
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, "  Requests  contacts   contact birthdays")
	fmt.Fprintln(out, "----------------------------------------")
	for _, loops := range sizes {
		fmt.Fprintf(out, "%10d", loops)
		urls := [][]string{
			repeat(baseURL+"/contacts", loops),
			contactURLs(baseURL, contacts, loops),
			repeat(baseURL+"/birthdays", loops),
		}
		for _, round := range urls {
			duration, err := callInLoop(client, round)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "%10d", duration.Microseconds()/int64(loops))
		}
		fmt.Fprintln(out)
	}
	return nil
}

func callInLoop(client *http.Client, urls []string) (time.Duration, error) {
	var total time.Duration
	for _, url := range urls {
		_, d, err := sendRequest(client, url)
		if err != nil {
			return 0, err
		}
		total += d
	}
	return total, nil
}

func repeat(url string, loops int) []string {
	urls := make([]string, loops)
	for i := range urls {
		urls[i] = url
	}
	return urls
}

// contactURLs returns single contact URLs in random order.
func contactURLs(baseURL string, contacts []model.Contact, loops int) []string {
	urls := make([]string, 0, loops)
	for i := 0; i < loops; i++ {
		urls = append(urls, baseURL+"/contacts/"+contacts[i%len(contacts)].Name)
	}
	rand.Shuffle(len(urls), func(i, j int) {
		urls[i], urls[j] = urls[j], urls[i]
	})
	return urls
}

func sendRequest(client *http.Client, url string) ([]byte, time.Duration, error) {
	before := time.Now()
	res, err := client.Get(url)
	if err != nil {
		return nil, 0, fmt.Errorf("error making http request: %w", err)
	}
	defer res.Body.Close()
	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("could not read response body: %w", err)
	}
	if res.StatusCode >= http.StatusInternalServerError {
		return nil, 0, fmt.Errorf("%s answered %s", url, res.Status)
	}
	return body, time.Since(before), nil
}
