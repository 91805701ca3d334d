// Command beamsolve-lambda runs the planner as an AWS Lambda-managed batch
// job. It accepts either a full API Gateway proxy event (whose Body holds
// the tuning payload) or, when invoked directly, the flat JSON tuning
// payload itself at the top level, runs beam.Solve against the Lambda
// invocation's deadline, and returns the rendered replay/upload artifacts
// inline as a proxy-shaped JSON response.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"runtime/debug"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/tidwall/gjson"

	"beamsolve/action"
	"beamsolve/beam"
	"beamsolve/config"
)

// Request accepts either a full API Gateway proxy event (Body holds the
// flat JSON tuning payload as a string) or, when invoked directly, the
// flat JSON tuning payload itself at the top level.
type Request struct {
	raw string
}

func (r *Request) UnmarshalJSON(data []byte) error {
	if body := gjson.GetBytes(data, "body"); body.Exists() && body.Type == gjson.String {
		r.raw = body.String()
		return nil
	}
	r.raw = string(data)
	return nil
}

// result is the JSON payload returned in a successful response's Body.
type result struct {
	Score         uint32 `json:"score"`
	Step          uint32 `json:"step"`
	CollapseLines uint32 `json:"collapse_lines"`
	CollapseCount uint32 `json:"collapse_count"`
	Trajectory    []int  `json:"trajectory"`
	Replay        string `json:"replay"`
	Upload        string `json:"upload"`
}

// errorBody is the JSON payload returned in a failed response's Body.
type errorBody struct {
	Error string `json:"error"`
}

func applyOverrides(cfg config.Config, raw string) config.Config {
	if v := gjson.Get(raw, "total_keep"); v.Exists() {
		cfg.TotalKeep = int(v.Int())
	}
	if v := gjson.Get(raw, "score_keep_ratio"); v.Exists() {
		cfg.ScoreKeepRatio = v.Float()
	}
	if v := gjson.Get(raw, "score_height_quota"); v.Exists() {
		cfg.ScoreHeightQuota = v.Float()
	}
	if v := gjson.Get(raw, "quality_height_quota"); v.Exists() {
		cfg.QualityHeightQuota = v.Float()
	}
	if v := gjson.Get(raw, "ignore_score_threshold"); v.Exists() {
		cfg.IgnoreScoreThreshold = int(v.Int())
	}
	if v := gjson.Get(raw, "ignore_height_threshold"); v.Exists() {
		cfg.IgnoreHeightThreshold = int(v.Int())
	}
	if v := gjson.Get(raw, "quality_row_transition_penalty"); v.Exists() {
		cfg.QualityRowTransitionPenalty = int(v.Int())
	}
	if v := gjson.Get(raw, "quality_col_transition_penalty"); v.Exists() {
		cfg.QualityColTransitionPenalty = int(v.Int())
	}
	if v := gjson.Get(raw, "quality_empty_penalty"); v.Exists() {
		cfg.QualityEmptyPenalty = int(v.Int())
	}
	if v := gjson.Get(raw, "quality_empty_penalty2"); v.Exists() {
		cfg.QualityEmptyPenalty2 = int(v.Int())
	}
	if v := gjson.Get(raw, "threads"); v.Exists() {
		cfg.Threads = int(v.Int())
	}
	if arr := gjson.Get(raw, "score_parent_quota"); arr.IsArray() {
		cfg.ScoreParentQuota = floatArray(arr)
	}
	if arr := gjson.Get(raw, "quality_parent_quota"); arr.IsArray() {
		cfg.QualityParentQuota = floatArray(arr)
	}
	return cfg
}

func floatArray(v gjson.Result) []float64 {
	arr := v.Array()
	out := make([]float64, len(arr))
	for i, e := range arr {
		out[i] = e.Float()
	}
	return out
}

func errorResponse(err error) (events.APIGatewayProxyResponse, error) {
	body, marshalErr := json.Marshal(errorBody{Error: err.Error()})
	if marshalErr != nil {
		body = []byte(`{"error":"beamsolve-lambda: failed to marshal error body"}`)
	}
	return events.APIGatewayProxyResponse{StatusCode: 500, Body: string(body)}, nil
}

// handle runs the solver against the caller's tuning overrides and the
// invocation's deadline, already-unwrapped from whichever request shape
// UnmarshalJSON resolved.
func handle(ctx context.Context, raw string) (events.APIGatewayProxyResponse, error) {
	cfg, err := config.Load(nil, nil)
	if err != nil {
		return errorResponse(fmt.Errorf("beamsolve-lambda: loading base config: %w", err))
	}
	cfg = applyOverrides(cfg, raw)
	if err := cfg.Validate(); err != nil {
		return errorResponse(fmt.Errorf("beamsolve-lambda: invalid overridden config: %w", err))
	}

	pool := beam.NewPool(cfg.Threads)
	defer pool.Close()

	res := beam.Solve(ctx, cfg, pool)

	uploadText := action.Join(res.Actions)
	replayText := fmt.Sprintf("# score=%d step=%d\n%s",
		res.FinalBoard.Score, res.FinalBoard.Step, uploadText)

	body, err := json.Marshal(result{
		Score:         res.FinalBoard.Score,
		Step:          res.FinalBoard.Step,
		CollapseLines: res.FinalBoard.CollapseLines,
		CollapseCount: res.FinalBoard.CollapseCount,
		Trajectory:    res.Trajectory,
		Replay:        replayText,
		Upload:        uploadText,
	})
	if err != nil {
		return errorResponse(fmt.Errorf("beamsolve-lambda: marshaling result: %w", err))
	}
	return events.APIGatewayProxyResponse{StatusCode: 200, Body: string(body)}, nil
}

// HandleRequest is the Lambda entry point. It never lets a panic inside
// the solver escape to the runtime uncaught: recover happens here, at the
// handler boundary, and is turned into a 500-shaped JSON error body after
// logging the panic value and a stack trace.
func HandleRequest(ctx context.Context, req Request) (resp events.APIGatewayProxyResponse, err error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().
				Interface("panic", r).
				Str("stack", string(debug.Stack())).
				Msg("beamsolve-lambda: recovered from panic")
			resp, err = errorResponse(fmt.Errorf("beamsolve-lambda: internal error: %v", r))
		}
	}()
	return handle(ctx, req.raw)
}

func main() {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	log.Info().Msg("beamsolve-lambda: cold start")
	lambda.Start(HandleRequest)
}
