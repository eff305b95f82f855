package openai

type ResultKind int

const (
	ResultOK ResultKind = iota
	ResultRateLimited
	ResultInvalidRequest
	ResultFailed
)

func (k ResultKind) String() string {
	switch k {
	case ResultOK:
		return "ok"
	case ResultRateLimited:
		return "rate_limited"
	case ResultInvalidRequest:
		return "invalid_request"
	case ResultFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Result is the closed set of completion outcomes. Text is set for
// ResultOK, Reason for ResultInvalidRequest, Err for every failure.
type Result struct {
	Kind   ResultKind
	Text   string
	Reason string
	Err    error
}

func OK(text string) Result {
	return Result{Kind: ResultOK, Text: text}
}

func RateLimited(err error) Result {
	return Result{Kind: ResultRateLimited, Err: err}
}

func InvalidRequest(reason string, err error) Result {
	return Result{Kind: ResultInvalidRequest, Reason: reason, Err: err}
}

func Failed(err error) Result {
	return Result{Kind: ResultFailed, Err: err}
}
