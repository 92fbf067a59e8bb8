// Package dbl provides a client for the Discord Bot List (top.gg) API.
//
// Every API call returns immediately with a *Future that resolves exactly
// once, on a goroutine owned by the transport, with either the typed result
// or an error.
//
// # Usage
//
//	logger := zerolog.New(os.Stdout)
//	client, err := dbl.NewClient(token, botID, logger,
//		dbl.WithTimeout(10*time.Second),
//		dbl.WithRateLimit(1, 60),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer client.Close(context.Background())
//
//	// Fire and forget
//	client.SetServerCount(ctx, len(guilds))
//
//	// Block on the result
//	bot, err := client.GetBot(ctx, "264811613708746752").Await(ctx)
//
//	// Chain
//	client.HasVoted(ctx, userID).Then(func(voted bool, err error) {
//		// ...
//	})
//
// # Authentication
//
// The token is attached verbatim as the Authorization header of every
// request by a single wrapper installed around the transport when the
// client is built.
//
// # Error Handling
//
// A future fails with one of:
//
//   - *TransportError: no response was received (DNS, connection reset, timeout)
//   - *APIError: the API answered with a non-2xx status
//   - *TransformError: the body did not match the expected shape
//   - ErrInvalidArgument: a required argument was empty, no request was sent
//
// API errors include helper methods for classification:
//
//	var apiErr *dbl.APIError
//	if errors.As(err, &apiErr) && apiErr.IsRateLimited() {
//		time.Sleep(apiErr.RetryAfter)
//	}
package dbl
