// Command lambda runs one relay invocation per scheduled EventBridge event.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"

	"github.com/samvad-hq/samvad-headline-relay/internal/app"
	"github.com/samvad-hq/samvad-headline-relay/internal/config"
	"github.com/samvad-hq/samvad-headline-relay/internal/domain"
	"github.com/samvad-hq/samvad-headline-relay/internal/logger"
)

// Response is returned to the scheduler.
type Response struct {
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
}

// runner executes one invocation.
type runner interface {
	RunOnce(ctx context.Context) domain.Outcome
}

// newHandler adapts r to the Lambda handler signature. Failures are reported in the
// response rather than as an error so the scheduler does not retry; the next firing is the retry.
func newHandler(r runner) func(ctx context.Context, evt events.CloudWatchEvent) (Response, error) {
	return func(ctx context.Context, evt events.CloudWatchEvent) (Response, error) {
		logger.DebugObj("scheduled event received", "lambda_event", map[string]any{
			"id":   evt.ID,
			"time": evt.Time,
		})
		out := r.RunOnce(ctx)
		return Response{StatusCode: out.StatusCode(), Message: out.Message()}, nil
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.Init(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Close()

	relay, err := app.NewRelay(context.Background(), cfg, log)
	if err != nil {
		logger.ErrorObj("failed to initialize relay", "error", err.Error())
		os.Exit(1)
	}
	defer relay.Close()

	lambda.Start(newHandler(relay))
}
