package conversation

import (
	"encoding/json"
	"fmt"
	"maps"
	"net/http"
	"net/url"

	"github.com/koscakluka/pullstring-core/core/audio"
)

const (
	conversationEndpoint = "conversation"
	jsonContentType      = "application/json"
)

func endpointFor(req *Request) string {
	if req.ConversationID == "" {
		return conversationEndpoint
	}
	return conversationEndpoint + "/" + url.PathEscape(req.ConversationID)
}

func headersFor(req *Request, isAudio bool) http.Header {
	contentType := jsonContentType
	if isAudio {
		contentType = audio.GetDefaultEncodingInfo().ContentType()
	}

	header := http.Header{}
	header.Set("Authorization", "Bearer "+req.APIKey)
	header.Set("Accept", jsonContentType)
	header.Set("Content-Type", contentType)
	return header
}

func queryFor(req *Request) url.Values {
	query := url.Values{}
	query.Set("asr_language", req.Language)
	if req.AccountID != "" {
		query.Set("account", req.AccountID)
	}
	return query
}

// encodeBody serializes payload along with the request fields whose value
// differs from the server default.
func encodeBody(req *Request, payload map[string]any) ([]byte, error) {
	body := map[string]any{}
	if req.BuildType != "" && req.BuildType != BuildTypeProduction {
		body["build_type"] = string(req.BuildType)
	}
	if req.ParticipantID != "" {
		body["participant"] = req.ParticipantID
	}
	if !req.RestartIfModified {
		body["restart_if_modified"] = false
	}
	maps.Copy(body, payload)

	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("error marshalling request body: %w", err)
	}
	return data, nil
}
