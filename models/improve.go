package models

// ImproveRequest is the request body for /improve-code. Code and SelectedCode
// may be empty; an empty Code switches the generation backend into
// generate-from-scratch mode.
type ImproveRequest struct {
	Code         string `json:"code"`
	Prompt       string `json:"prompt"`
	SelectedCode string `json:"selected_code"`
}

// ImproveResponse carries the full updated (or newly generated) program and
// the model's explanation. A server-side syntax warning, when present, is
// appended to the explanation rather than reported separately.
type ImproveResponse struct {
	ModifiedCode string `json:"modified_code"`
	Explanation  string `json:"explanation"`
}
