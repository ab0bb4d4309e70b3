package models

// StreamerInfo is one candidate returned by the streamer lookup.
type StreamerInfo struct {
	Name         string `json:"name"`
	ThumbnailURL string `json:"thumbnailUrl"`
	StreamURL    string `json:"streamUrl"`
}

// StreamerInfoResponse is the result of a streamer lookup.
type StreamerInfoResponse struct {
	Identified bool           `json:"identified"`
	Candidates []StreamerInfo `json:"candidates"`
}

// EmptyStreamerInfoResponse returns the not-identified response.
func EmptyStreamerInfoResponse() StreamerInfoResponse {
	return StreamerInfoResponse{Candidates: []StreamerInfo{}}
}

// NewStreamerInfoResponse returns an identified response holding infos.
//
// With no infos the result is the empty response.
func NewStreamerInfoResponse(infos ...StreamerInfo) StreamerInfoResponse {
	if len(infos) == 0 {
		return EmptyStreamerInfoResponse()
	}
	return StreamerInfoResponse{Identified: true, Candidates: infos}
}

// IsEmpty reports whether the response carries no candidates.
func (r StreamerInfoResponse) IsEmpty() bool {
	return !r.Identified || len(r.Candidates) == 0
}

// First returns the first candidate, if any.
func (r StreamerInfoResponse) First() (StreamerInfo, bool) {
	if r.IsEmpty() {
		return StreamerInfo{}, false
	}
	return r.Candidates[0], true
}
