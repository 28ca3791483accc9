package main

import (
	"errors"
	"fmt"
	"maps"
	"strings"

	"github.com/spf13/cobra"

	"github.com/adamwoolhether/booxtream/client"
	"github.com/adamwoolhether/booxtream/options"
)

// errRejected makes the command exit non-zero when the service refused
// the request. The service's error document has already been printed.
var errRejected = errors.New("request rejected by booxtream")

// terminalCheck reports whether output goes to a terminal. Tests replace it.
var terminalCheck = isTerminal

type sendFlags struct {
	outputType     string
	epub           string
	storedEpub     string
	exlibris       string
	storedExlibris string
	options        []string
	output         string
	progress       bool
}

func newSendCommand(ctx *commandContext) *cobra.Command {
	var flags sendFlags

	cmd := &cobra.Command{
		Use:   "send",
		Short: "Send an e-book to the service and write the result",
		Long: `Send an e-book, local or already stored at the service, together with the
delivery options. Options from the config file are used as defaults and can be
overridden with --option key=value.

The xml output type returns download links. The epub and mobi output types
return the personalized e-book itself, which must be written to --output when
stdout is a terminal.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSend(cmd, ctx, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.outputType, "type", "t", "epub", "Output type: xml, epub or mobi")
	cmd.Flags().StringVar(&flags.epub, "epub", "", "Local e-book to upload")
	cmd.Flags().StringVar(&flags.storedEpub, "stored-epub", "", "Id of an e-book stored at the service")
	cmd.Flags().StringVar(&flags.exlibris, "exlibris", "", "Local ex libris image to upload")
	cmd.Flags().StringVar(&flags.storedExlibris, "stored-exlibris", "", "Id of an ex libris image stored at the service")
	cmd.Flags().StringArrayVar(&flags.options, "option", nil, "Delivery option as key=value (repeatable)")
	cmd.Flags().StringVar(&flags.output, "output", "", "Write the response body to this file")
	cmd.Flags().BoolVar(&flags.progress, "progress", false, "Log upload progress of local files")

	cmd.MarkFlagsMutuallyExclusive("epub", "stored-epub")
	cmd.MarkFlagsOneRequired("epub", "stored-epub")
	cmd.MarkFlagsMutuallyExclusive("exlibris", "stored-exlibris")

	return cmd
}

func runSend(cmd *cobra.Command, ctx *commandContext, flags sendFlags) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	if err := cfg.ValidateCredentials(); err != nil {
		return err
	}

	outputType, err := client.ParseOutputType(flags.outputType)
	if err != nil {
		return err
	}

	values, err := mergeOptions(cfg.Options, flags.options)
	if err != nil {
		return err
	}

	stdout := cmd.OutOrStdout()
	stderr := cmd.ErrOrStderr()
	if flags.output == "" && outputType != client.XML && terminalCheck(stdout) {
		return fmt.Errorf("refusing to write %s output to a terminal; use --output", outputType)
	}

	logger := newLogger(cfg.Logging, stderr)

	transportOpts := []client.TransportOption{
		client.WithTimeout(cfg.Timeout()),
		client.WithUserAgent(cfg.Service.UserAgent),
		client.WithTransportLogger(logger),
	}
	if cfg.Service.RequestsPerSecond > 0 {
		transportOpts = append(transportOpts, client.WithThrottle(cfg.Service.RequestsPerSecond, cfg.Service.Burst))
	}
	transport, err := client.NewHTTPTransport(transportOpts...)
	if err != nil {
		return err
	}

	clientOpts := []client.Option{
		client.WithBaseURL(cfg.Service.BaseURL),
		client.WithLogger(logger),
		client.WithTransport(transport),
	}
	if flags.progress {
		clientOpts = append(clientOpts, client.WithUploadProgress())
	}

	c, err := client.New(outputType, options.New(values),
		client.Credentials{Username: cfg.Service.Username, APIKey: cfg.Service.APIKey},
		clientOpts...,
	)
	if err != nil {
		return err
	}
	defer c.Close()

	if err := attach(cmd, c, flags); err != nil {
		return err
	}

	resp, err := c.Send(cmd.Context())
	if err != nil {
		return err
	}

	if resp.Rejected() {
		fmt.Fprintf(stderr, "BooXtream rejected the request with status %d\n", resp.StatusCode)
		if _, err := resp.WriteTo(stderr); err != nil {
			return fmt.Errorf("writing error document: %w", err)
		}
		fmt.Fprintln(stderr)
		return fmt.Errorf("%w: status %d", errRejected, resp.StatusCode)
	}

	if flags.output != "" {
		if err := resp.Save(flags.output); err != nil {
			return fmt.Errorf("saving response: %w", err)
		}
		fmt.Fprintf(stdout, "Saved %d bytes (%s) to %s\n", len(resp.Body), resp.ContentType(), flags.output)
		return nil
	}

	fmt.Fprintf(stderr, "Status %d, %d bytes (%s)\n", resp.StatusCode, len(resp.Body), resp.ContentType())
	if _, err := resp.WriteTo(stdout); err != nil {
		return fmt.Errorf("writing response: %w", err)
	}

	return nil
}

func attach(cmd *cobra.Command, c *client.Client, flags sendFlags) error {
	switch {
	case flags.epub != "":
		if err := c.SetEpubFile(flags.epub); err != nil {
			return err
		}
	case flags.storedEpub != "":
		if err := c.SetStoredEpubFile(cmd.Context(), flags.storedEpub); err != nil {
			return err
		}
	}

	switch {
	case flags.exlibris != "":
		if err := c.SetExlibrisFile(flags.exlibris); err != nil {
			return err
		}
	case flags.storedExlibris != "":
		if err := c.SetStoredExlibrisFile(cmd.Context(), flags.storedExlibris); err != nil {
			return err
		}
	}

	return nil
}

// mergeOptions layers key=value pairs from the command line over the
// configured defaults.
func mergeOptions(defaults map[string]any, pairs []string) (map[string]any, error) {
	values := maps.Clone(defaults)
	if values == nil {
		values = map[string]any{}
	}

	for _, pair := range pairs {
		name, raw, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, fmt.Errorf("option %q must be key=value", pair)
		}

		key, known := options.Lookup(name)
		if !known {
			return nil, fmt.Errorf("unknown option %q; see 'booxtream options'", name)
		}

		v, err := options.ParseValue(key, raw)
		if err != nil {
			return nil, err
		}
		values[string(key)] = v
	}

	return values, nil
}
