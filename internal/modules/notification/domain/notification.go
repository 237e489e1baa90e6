package domain

// Result is the outcome of one delivery attempt on one channel.
// Results are never merged: push succeeding while desktop fails is two results.
type Result struct {
	Success bool    `json:"success"`
	Channel Channel `json:"channel"`
	Error   string  `json:"error,omitempty"`
}

func Succeeded(channel Channel) Result {
	return Result{Success: true, Channel: channel}
}

func Failed(channel Channel, err error) Result {
	r := Result{Channel: channel}
	if err != nil {
		r.Error = err.Error()
	}
	return r
}
