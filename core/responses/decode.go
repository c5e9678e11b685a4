package responses

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/tidwall/gjson"

	"github.com/koscakluka/pullstring-core/core/params"
)

var lastModifiedLayouts = []string{time.RFC1123Z, time.RFC1123}

// Decode turns a response body into a Response. endpoint is the value of
// the Location header, if any. Decode never fails: malformed JSON produces a
// failed Status with CodeParsing.
func Decode(data []byte, endpoint string) *Response {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return NewFailure(CodeParsing, fmt.Sprintf("error parsing response: %v", err))
	}
	if probe == nil {
		return NewFailure(CodeParsing, "error parsing response: body is not a JSON object")
	}

	root := gjson.ParseBytes(data)
	response := &Response{
		Status:                decodeStatus(root.Get("error")),
		ConversationID:        root.Get("conversation").String(),
		ParticipantID:         root.Get("participant").String(),
		ETag:                  root.Get("etag").String(),
		ASRHypothesis:         root.Get("asr_hypothesis").String(),
		TimedResponseInterval: root.Get("timed_response_interval").Float(),
		LastModified:          parseLastModified(root.Get("last_modified").String()),
		Endpoint:              endpoint,
	}
	if response.Endpoint == "" {
		response.Endpoint = root.Get("endpoint").String()
	}

	if outputs := root.Get("outputs"); outputs.IsArray() {
		outputs.ForEach(func(_, output gjson.Result) bool {
			if decoded, ok := decodeOutput(output); ok {
				response.Outputs = append(response.Outputs, decoded)
			}
			return true
		})
	}

	if entities := root.Get("entities"); entities.IsObject() {
		entities.ForEach(func(name, value gjson.Result) bool {
			if decoded, ok := decodeEntity(name.String(), value); ok {
				response.Entities = append(response.Entities, decoded)
			}
			return true
		})
	}

	return response
}

// DecodeError turns the body of a non-2xx response into a failed Response.
// The body must carry an error object with a numeric status and a message;
// anything else is reported as a parsing failure.
func DecodeError(data []byte, statusCode int, endpoint string) *Response {
	response := Decode(data, endpoint)
	if !response.Status.Success && response.Status.Code == CodeParsing {
		return response
	}

	if !hasErrorStatus(gjson.GetBytes(data, "error")) {
		response.Status = Failure(CodeParsing,
			fmt.Sprintf("error parsing response: HTTP %d body has no error status and message", statusCode))
	}
	return response
}

func hasErrorStatus(errorObject gjson.Result) bool {
	if !errorObject.IsObject() {
		return false
	}
	if message := errorObject.Get("message"); !message.Exists() || message.Type == gjson.Null {
		return false
	}

	switch code := errorObject.Get("status"); code.Type {
	case gjson.Number:
		return true
	case gjson.String:
		_, err := strconv.Atoi(code.Str)
		return err == nil
	}
	return false
}

func decodeStatus(errorObject gjson.Result) Status {
	if !errorObject.IsObject() {
		return OK()
	}

	status := Failure(CodeUnknownServerError, unknownErrorMessage)
	if message := errorObject.Get("message"); message.Exists() && message.Type != gjson.Null {
		status.Message = message.String()
	}

	switch code := errorObject.Get("status"); code.Type {
	case gjson.Number:
		status.Code = int(code.Int())
	case gjson.String:
		if parsed, err := strconv.Atoi(code.Str); err == nil {
			status.Code = parsed
		}
	}

	return status
}

func parseLastModified(value string) *time.Time {
	if value == "" {
		return nil
	}
	for _, layout := range lastModifiedLayouts {
		if parsed, err := time.Parse(layout, value); err == nil {
			return &parsed
		}
	}
	return nil
}

func decodeOutput(output gjson.Result) (Output, bool) {
	switch OutputType(output.Get("type").String()) {
	case OutputTypeDialog:
		dialog := Dialog{
			ID:        output.Get("id").String(),
			Text:      output.Get("text").String(),
			AudioURI:  output.Get("uri").String(),
			VideoURI:  output.Get("video_file").String(),
			Character: output.Get("character").String(),
			Duration:  output.Get("duration").Float(),
			UserData:  output.Get("user_data").String(),
		}
		output.Get("phonemes").ForEach(func(_, phoneme gjson.Result) bool {
			dialog.Phonemes = append(dialog.Phonemes, Phoneme{
				Name:          phoneme.Get("name").String(),
				OffsetSeconds: phoneme.Get("seconds_since_start").Float(),
			})
			return true
		})
		return dialog, true

	case OutputTypeBehavior:
		behavior := Behavior{
			ID:         output.Get("id").String(),
			Name:       output.Get("behavior").String(),
			Parameters: map[string]params.Value{},
		}
		if parameters := output.Get("parameters"); parameters.IsObject() {
			parameters.ForEach(func(name, value gjson.Result) bool {
				behavior.Parameters[name.String()] = params.New(value.Value())
				return true
			})
		}
		return behavior, true
	}

	return nil, false
}

func decodeEntity(name string, value gjson.Result) (Entity, bool) {
	switch value.Type {
	case gjson.String:
		return Label{Name: name, Value: value.Str}, true
	case gjson.Number:
		return Counter{Name: name, Value: value.Num}, true
	case gjson.True, gjson.False:
		return Flag{Name: name, Value: value.Bool()}, true
	case gjson.JSON:
		if !value.IsArray() {
			return nil, false
		}
		items := []any{}
		value.ForEach(func(_, item gjson.Result) bool {
			items = append(items, item.Value())
			return true
		})
		return List{Name: name, Value: items}, true
	}
	return nil, false
}
