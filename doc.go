// Package gemkit is a Go client for the Google Gemini generative
// language API: content generation, streaming, embeddings, batch
// processing, file upload, context caching, and file-search retrieval.
//
// # Client
//
// The entry point is [Client], created with an API key and functional
// options:
//
//	client := gemkit.New(os.Getenv("GEMINI_API_KEY"),
//	    gemkit.WithModel("gemini-2.5-flash"),
//	    gemkit.WithTelemetry(myHook),
//	)
//
// # GenerateBuilder
//
// [GenerateBuilder] provides a fluent API for constructing generation
// requests:
//
//	resp, err := client.Generate().
//	    System("You are terse.").
//	    User("What is 2+2?").
//	    MaxOutputTokens(16).
//	    Execute(ctx)
//	fmt.Println(resp.Text())
//
// GenerateBuilder is NOT thread-safe. Each goroutine should create its
// own builder instance. Requests produced by [GenerateBuilder.Build] are
// detached from the builder and safe to reuse.
//
// # Streaming
//
// [GenerateBuilder.ExecuteStream] returns a [Stream] delivering the
// response fragment by fragment:
//
//	stream, err := client.Generate().User("Tell me a story.").ExecuteStream(ctx)
//	if err != nil { ... }
//	defer stream.Close()
//	for {
//	    frag, err := stream.Next()
//	    if errors.Is(err, io.EOF) {
//	        break
//	    }
//	    if err != nil { ... }
//	    fmt.Print(frag.Text())
//	}
//
// # Batches
//
// [BatchBuilder] submits many requests for asynchronous processing at
// reduced cost; the returned [Batch] handle observes the server-side
// operation until it reaches a terminal state.
//
// # Errors
//
// All failures unwrap to package sentinels ([ErrUnauthorized],
// [ErrRateLimited], [ErrTransport], ...) so callers classify with
// errors.Is while [APIError] keeps the full HTTP context.
package gemkit
