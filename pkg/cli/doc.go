/*
Package cli provides the output formatting, progress reporting, signal
handling, and typed errors shared by the policyrtd subcommands (lint, run).

Output Formatting:

`policyrtd lint` renders its []lintResult either as a text findings block
per file, or as JSON for CI:

	formatter := cli.NewFormatter(cli.FormatJSON)
	if err := formatter.FormatTo(os.Stdout, results); err != nil {
		return err
	}

Progress Reporting:

`policyrtd lint --dir` reports a bar across the policy files it walks:

	progress := cli.NewProgressReporter(os.Stderr)
	progress.Start(int64(len(files)))
	for i, file := range files {
		lintFile(file)
		progress.Update(int64(i + 1))
	}
	progress.Finish()

Signal Handling:

`policyrtd run` ties SIGINT/SIGTERM to server.Server's graceful shutdown; a
second signal forces an immediate exit rather than waiting out the shutdown
timeout twice:

	ctx := cli.SetupSignalHandler(logger)
	srv.Start(ctx) // Start's ctx.Done() case calls srv.Shutdown

Typed Errors:

ConfigError, CommandError, and ValidationError give each subcommand's
RunE a distinguishable error shape (bad config field, failed subprocess,
policy files that failed lint validation) instead of an opaque error string.
*/
package cli
