package main

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"rentalhub/internal/forms"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	draftFile     string
	draftKey      string
	draftServer   string
	draftToken    string
	draftInterval time.Duration
)

var draftCmd = &cobra.Command{
	Use:   "draft",
	Short: "Work with server-side form drafts",
}

var draftSyncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Keep a local form file synced to the drafts API",
	Long: `Watch a local YAML or JSON file of form values and push it to
PUT /api/drafts/<key> whenever it changed since the last save. Ctrl-C asks for
confirmation while the file holds unsaved changes.`,
	RunE: runDraftSync,
}

func init() {
	draftSyncCmd.Flags().StringVarP(&draftFile, "file", "f", "", "form values file")
	draftSyncCmd.Flags().StringVar(&draftKey, "key", "property-editor", "draft key")
	draftSyncCmd.Flags().StringVar(&draftServer, "server", "http://localhost:8080", "API base URL")
	draftSyncCmd.Flags().StringVar(&draftToken, "token", os.Getenv("RENTALHUB_TOKEN"), "bearer token")
	draftSyncCmd.Flags().DurationVar(&draftInterval, "interval", forms.DefaultInterval, "auto-save interval")
	_ = draftSyncCmd.MarkFlagRequired("file")
	draftCmd.AddCommand(draftSyncCmd)
}

// fileSnapshot reads the form file and returns its canonical JSON, so
// reformatting the file alone does not count as a change.
func fileSnapshot(path string) forms.SnapshotFunc {
	return func() ([]byte, error) {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		values := forms.Values{}
		if err := yaml.Unmarshal(data, &values); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		return json.Marshal(values)
	}
}

type draftClient struct {
	http   *http.Client
	server string
	token  string
}

func (c *draftClient) save(key string) forms.SaveFunc {
	return func(ctx context.Context, snapshot []byte) error {
		endpoint := strings.TrimRight(c.server, "/") + "/api/drafts/" + url.PathEscape(key)
		req, err := http.NewRequestWithContext(ctx, http.MethodPut, endpoint, bytes.NewReader(snapshot))
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", "application/json")
		if c.token != "" {
			req.Header.Set("Authorization", "Bearer "+c.token)
		}

		resp, err := c.http.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		var env struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
		}
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
		if err := json.Unmarshal(body, &env); err != nil {
			return fmt.Errorf("unexpected response (%s)", resp.Status)
		}
		if env.Code != http.StatusOK {
			return fmt.Errorf("save rejected: %d %s", env.Code, env.Message)
		}
		return nil
	}
}

// terminalPrompter reads y/n answers from in.
type terminalPrompter struct {
	in  *bufio.Reader
	out io.Writer
}

func (p terminalPrompter) Confirm(prompt string) (bool, error) {
	fmt.Fprintf(p.out, "%s [y/N] ", prompt)
	line, err := p.in.ReadString('\n')
	if err != nil && line == "" {
		return false, err
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes", nil
}

func runDraftSync(cmd *cobra.Command, args []string) error {
	client := &draftClient{
		http:   &http.Client{Timeout: 15 * time.Second},
		server: draftServer,
		token:  draftToken,
	}
	out := cmd.OutOrStdout()

	saver := forms.NewAutoSaver(fileSnapshot(draftFile), client.save(draftKey), forms.WithInterval(draftInterval))
	guard := forms.NewGuard(terminalPrompter{in: bufio.NewReader(cmd.InOrStdin()), out: out}, saver.Pending)

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	if err := saver.SaveNow(ctx); err != nil {
		return fmt.Errorf("initial save: %w", err)
	}
	fmt.Fprintf(out, "Draft %q synced, watching %s every %s\n", draftKey, draftFile, draftInterval)

	done := make(chan struct{})
	go func() {
		saver.Run(ctx)
		close(done)
	}()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigs)

	for range sigs {
		ran, err := guard.Confirm(func() error {
			cancel()
			return nil
		}, "The file has changes that were not saved yet. Quit anyway?")
		if err != nil {
			cancel()
			<-done
			return err
		}
		if ran {
			break
		}
		fmt.Fprintln(out, "Still syncing.")
	}

	<-done
	if saved := saver.SavedAt(); !saved.IsZero() {
		fmt.Fprintf(out, "Last saved at %s\n", saved.Format(time.Kitchen))
	}
	return nil
}
