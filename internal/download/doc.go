// Package download provides the orchestration logic that turns a channel
// into downloaded episodes.
//
// # Manager
//
// The Manager coordinates the entire process, one channel at a time:
//
//  1. Resolve the channels: the configured allow-list, or discovery from
//     the video feed (optionally restricted to a category)
//  2. Fetch the channel details and every episode
//  3. Partition the episodes with the facet filter
//  4. Ask the operator for an excluded line and an included line
//  5. Resolve both lines; stop here when nothing is selected
//  6. Persist channel.json and episodes.json
//  7. Download every selected episode: excluded selections first, then
//     included selections, each in the order typed
//  8. Write the channel playlist (optional)
//
// # Basic Usage
//
//	manager := download.NewManager(settings, download.Deps{
//	    Catalog:  nebulaClient,
//	    Streams:  nebulaClient,
//	    Fetcher:  fetcher,
//	    Metadata: metadata.NewPersister(),
//	    Prompter: tui.NewLinePrompter(os.Stdin, os.Stdout),
//	}, download.Options{}, func(event download.ProgressEvent) {
//	    fmt.Println(event.Message)
//	})
//
//	if err := manager.Run(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
// # Episode steps
//
// Each episode goes through directory creation, thumbnail, streaming info,
// video and subtitles. A failed directory ends the episode at once. Failed
// streaming info skips video and subtitles. Any other failure is recorded
// and the remaining steps still run. An episode with any failure aborts the
// rest of its channel; the next channel is still processed.
//
// # Progress Tracking
//
// Progress is reported via a callback function that receives ProgressEvent:
//
//	type ProgressEvent struct {
//	    Message string
//	    Level   ProgressLevel // Info, Verbose, Warning, Error, Success
//	}
//
// # Concurrency
//
// Run is sequential. Blocking calls receive the run context, so cancelling
// it stops the in-flight request and the run.
package download
