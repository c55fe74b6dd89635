package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/meenmo/bondlib/calendar"
	"github.com/meenmo/bondlib/conventions"
	"github.com/meenmo/bondlib/curve"
	"github.com/meenmo/bondlib/daycount"
	"github.com/meenmo/bondlib/engine"
	"github.com/meenmo/bondlib/refdata"
)

type bondInput struct {
	TaskID         string         `json:"task_id,omitempty"`
	Identifier     string         `json:"identifier"`
	CleanPrice     float64        `json:"clean_price"`
	SettlementDate string         `json:"settlement_date,omitempty"`
	Country        string         `json:"country,omitempty"`
	Overrides      *overridesJSON `json:"overrides,omitempty"`
}

type overridesJSON struct {
	DayCount    string `json:"day_count"`
	BusinessDay string `json:"business_day"`
	Frequency   int    `json:"frequency"`
	EndOfMonth  bool   `json:"end_of_month,omitempty"`
}

type curveInput struct {
	CurveDate string        `json:"curve_date"`
	Quotes    []curve.Quote `json:"quotes"`
}

type bondOutput struct {
	TaskID           string   `json:"task_id,omitempty"`
	Identifier       string   `json:"identifier"`
	SettlementDate   string   `json:"settlement_date,omitempty"`
	Maturity         string   `json:"maturity,omitempty"`
	ResolutionPath   string   `json:"resolution_path,omitempty"`
	ConventionSource string   `json:"convention_source,omitempty"`
	ConfidenceTier   string   `json:"confidence_tier,omitempty"`
	Yield            float64  `json:"yield,omitempty"`
	CleanPrice       float64  `json:"clean_price,omitempty"`
	DirtyPrice       float64  `json:"dirty_price,omitempty"`
	AccruedInterest  float64  `json:"accrued_interest,omitempty"`
	ModifiedDuration float64  `json:"modified_duration,omitempty"`
	Convexity        float64  `json:"convexity,omitempty"`
	PVBP             float64  `json:"pvbp,omitempty"`
	GSpreadBP        *float64 `json:"g_spread_bp,omitempty"`
	ZSpreadBP        *float64 `json:"z_spread_bp,omitempty"`
	SpreadNote       string   `json:"spread_note,omitempty"`
	Error            string   `json:"error,omitempty"`
	ErrorKind        string   `json:"error_kind,omitempty"`
}

func main() {
	inputPath := flag.String("input", "", "JSON input path (reads stdin if omitted)")
	curvePath := flag.String("curve", "", "JSON benchmark curve path (optional)")
	verbose := flag.Bool("v", false, "Verbose logging")
	help := flag.Bool("h", false, "Show help")
	flag.BoolVar(help, "help", false, "Show help")
	flag.Parse()

	if *help {
		fmt.Fprintln(os.Stderr, "Usage: bondcalc -input <path> [-curve <path>]")
		fmt.Fprintln(os.Stderr, "Resolve bond identifiers and compute yield, risk and spread analytics.")
		fmt.Fprintln(os.Stderr, "Set BONDCALC_PG_DSN (or .env) to load reference data from Postgres.")
		return
	}

	godotenv.Load()
	level := zerolog.WarnLevel
	if *verbose {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).With().Timestamp().Logger()

	path := strings.TrimSpace(*inputPath)
	if path == "" {
		if stat, err := os.Stdin.Stat(); err == nil && (stat.Mode()&os.ModeCharDevice) != 0 {
			fmt.Fprintln(os.Stderr, "Usage: bondcalc -input <path> [-curve <path>]")
			os.Exit(2)
		}
	}

	raw, err := readInput(path)
	if err != nil {
		exitError(fmt.Sprintf("read input: %v", err))
	}

	inputs, isArray, err := parseInputs(raw)
	if err != nil {
		exitError(fmt.Sprintf("parse JSON: %v", err))
	}

	ctx := context.Background()
	snap, err := loadSnapshot(ctx, logger, *curvePath)
	if err != nil {
		exitError(err.Error())
	}

	eng := engine.New(snap, logger)

	reqs := make([]engine.Request, 0, len(inputs))
	for _, in := range inputs {
		req, err := toRequest(in)
		if err != nil {
			exitError(fmt.Sprintf("task %s: %v", in.TaskID, err))
		}
		reqs = append(reqs, req)
	}

	results := eng.Batch(ctx, reqs)

	hadError := false
	outputs := make([]bondOutput, 0, len(results))
	for i, res := range results {
		out := toOutput(inputs[i], res)
		if !res.OK() {
			hadError = true
		}
		outputs = append(outputs, out)
	}

	if isArray {
		b, _ := json.Marshal(outputs)
		fmt.Println(string(b))
	} else {
		b, _ := json.Marshal(outputs[0])
		fmt.Println(string(b))
	}

	if hadError {
		os.Exit(1)
	}
}

// loadSnapshot prefers Postgres when a DSN is configured, otherwise builds
// an in-memory snapshot from the optional curve file. Without either, the
// engine still runs in description-only mode with spreads disabled.
func loadSnapshot(ctx context.Context, logger zerolog.Logger, curvePath string) (*refdata.Snapshot, error) {
	curveDate, quotes, err := readCurve(curvePath)
	if err != nil {
		return nil, err
	}

	dsn := strings.TrimSpace(os.Getenv("BONDCALC_PG_DSN"))
	if dsn != "" {
		store, err := refdata.OpenPostgres(ctx, dsn)
		if err != nil {
			return nil, fmt.Errorf("postgres: %v", err)
		}
		defer store.Close()

		snap, err := store.LoadSnapshot(ctx, curveDate)
		if err != nil {
			return nil, fmt.Errorf("postgres snapshot: %v", err)
		}
		// A curve file on the command line beats stored quotes.
		if len(quotes) > 0 {
			snap = refdata.NewSnapshot(snap.Master, snap.Prefs, curveDate, quotes)
		}
		logger.Debug().Msg("reference data loaded from postgres")
		return snap, nil
	}

	return refdata.NewSnapshot(
		refdata.NewMapSecurityMaster(nil),
		refdata.NewMapPreferenceTable(nil),
		curveDate, quotes,
	), nil
}

func readCurve(path string) (time.Time, []curve.Quote, error) {
	if strings.TrimSpace(path) == "" {
		return time.Now().UTC().Truncate(24 * time.Hour), nil, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return time.Time{}, nil, fmt.Errorf("read curve: %v", err)
	}
	var in curveInput
	if err := json.Unmarshal(raw, &in); err != nil {
		return time.Time{}, nil, fmt.Errorf("parse curve JSON: %v", err)
	}
	date, err := time.Parse("2006-01-02", in.CurveDate)
	if err != nil {
		return time.Time{}, nil, fmt.Errorf("invalid curve_date: %v", err)
	}
	return date, in.Quotes, nil
}

func toRequest(in bondInput) (engine.Request, error) {
	req := engine.Request{
		Identifier: in.Identifier,
		Price:      in.CleanPrice,
		Country:    in.Country,
	}
	if in.SettlementDate != "" {
		settlement, err := time.Parse("2006-01-02", in.SettlementDate)
		if err != nil {
			return engine.Request{}, fmt.Errorf("invalid settlement_date: %v", err)
		}
		req.Settlement = settlement
	}
	if in.Overrides != nil {
		dc, err := daycount.Parse(in.Overrides.DayCount)
		if err != nil {
			return engine.Request{}, fmt.Errorf("invalid overrides.day_count: %v", err)
		}
		req.Overrides = &conventions.ConventionSet{
			DayCount:    dc,
			BusinessDay: calendar.Convention(in.Overrides.BusinessDay),
			Frequency:   conventions.Frequency(in.Overrides.Frequency),
			EndOfMonth:  in.Overrides.EndOfMonth,
		}
	}
	return req, nil
}

func toOutput(in bondInput, res engine.Result) bondOutput {
	out := bondOutput{
		TaskID:     in.TaskID,
		Identifier: res.Identifier,
	}
	if res.Failure != nil {
		out.Error = res.Failure.Reason
		out.ErrorKind = string(res.Failure.Kind)
		out.ResolutionPath = res.Failure.Path
		return out
	}
	out.SettlementDate = res.Settlement.Format("2006-01-02")
	out.Maturity = res.Spec.Maturity.Format("2006-01-02")
	out.ResolutionPath = res.Spec.Source
	out.ConventionSource = res.Resolution.Source
	out.ConfidenceTier = string(res.Resolution.Tier)
	out.Yield = res.Analytics.Yield
	out.CleanPrice = res.Analytics.CleanPrice
	out.DirtyPrice = res.Analytics.DirtyPrice
	out.AccruedInterest = res.Analytics.AccruedInterest
	out.ModifiedDuration = res.Analytics.ModifiedDuration
	out.Convexity = res.Analytics.Convexity
	out.PVBP = res.Analytics.PVBP
	out.GSpreadBP = res.GSpreadBP
	out.ZSpreadBP = res.ZSpreadBP
	out.SpreadNote = res.SpreadNote
	return out
}

func readInput(path string) ([]byte, error) {
	if path != "" {
		return os.ReadFile(path)
	}
	return io.ReadAll(os.Stdin)
}

func parseInputs(raw []byte) ([]bondInput, bool, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, false, fmt.Errorf("empty input")
	}
	if trimmed[0] == '[' {
		var inputs []bondInput
		if err := json.Unmarshal(trimmed, &inputs); err != nil {
			return nil, true, err
		}
		if len(inputs) == 0 {
			return nil, true, fmt.Errorf("empty input array")
		}
		return inputs, true, nil
	}
	var input bondInput
	if err := json.Unmarshal(trimmed, &input); err != nil {
		return nil, false, err
	}
	return []bondInput{input}, false, nil
}

func exitError(msg string) {
	b, _ := json.Marshal(bondOutput{Error: msg})
	fmt.Println(string(b))
	os.Exit(1)
}
