package conversation

import (
	"bytes"
	"context"
	"net/http"
	"testing"

	"github.com/koscakluka/pullstring-core/core/audio"
	"github.com/koscakluka/pullstring-core/core/events"
	"github.com/koscakluka/pullstring-core/core/responses"
)

func TestStreamedAudioIsUploadedInOrder(t *testing.T) {
	service := newFakeService(t, func(recorded recordedRequest) (int, string) {
		chunked := "false"
		if recorded.Header.Get("Content-Length") == "" {
			chunked = "true"
		}
		return http.StatusOK, `{"conversation":"c-s","participant":"p-s","asr_hypothesis":"` + chunked + `"}`
	})
	kinds := make(chan events.Kind, 16)
	listener, responsesCh := collect()
	conversation := service.conversation(listener, WithEventHandler(func(event events.Event) { kinds <- event.Kind() }))

	conversation.StartAudio(context.Background(), WithRequest(NewRequest("key")))
	conversation.AddAudio([]int16{1, 2})
	conversation.AddAudio(nil)
	conversation.AddAudio([]int16{3})
	conversation.EndAudio()
	conversation.AddAudio([]int16{4})

	response := await(t, responsesCh)
	if !response.Status.Success || response.ASRHypothesis != "true" {
		t.Fatalf("unexpected response %+v", response)
	}

	recorded := service.next(t)
	if recorded.Path != "/v1/conversation" {
		t.Fatalf("unexpected path %q", recorded.Path)
	}
	if got := recorded.Header.Get("Content-Type"); got != "audio/l16; rate=16000" {
		t.Fatalf("unexpected content type %q", got)
	}
	if got := recorded.Query.Get("asr_language"); got != "en-US" {
		t.Fatalf("expected asr_language on streamed upload, got %q", got)
	}
	if expected := audio.EncodePCM16LE([]int16{1, 2, 3}); !bytes.Equal(recorded.Body, expected) {
		t.Fatalf("expected body %v, got %v", expected, recorded.Body)
	}

	if conversation.ConversationID() != "c-s" || conversation.ParticipantID() != "p-s" {
		t.Fatalf("expected streamed response to update identity, got %q %q", conversation.ConversationID(), conversation.ParticipantID())
	}

	seen := map[events.Kind]bool{}
	for len(kinds) > 0 {
		seen[<-kinds] = true
	}
	for _, kind := range []events.Kind{events.KindRequestStarted, events.KindAudioStreamClosed, events.KindAudioStreamOpened, events.KindResponseReceived} {
		if !seen[kind] {
			t.Fatalf("expected %q event, saw %v", kind, seen)
		}
	}
}

func TestAudioCallsWithoutStartAreNoops(t *testing.T) {
	service := newFakeService(t, func(recordedRequest) (int, string) { return http.StatusOK, `{}` })
	var delivered int
	conversation := service.conversation(func(*responses.Response) { delivered++ })

	conversation.AddAudio([]int16{1, 2, 3})
	conversation.EndAudio()

	if delivered != 0 || service.hits.Load() != 0 {
		t.Fatalf("expected no responses and no requests, got %d responses and %d requests", delivered, service.hits.Load())
	}
}

func TestStartAudioWithoutRequestFails(t *testing.T) {
	service := newFakeService(t, func(recordedRequest) (int, string) { return http.StatusOK, `{}` })
	listener, responsesCh := collect()
	conversation := service.conversation(listener)

	conversation.StartAudio(context.Background())
	conversation.AddAudio([]int16{1})

	response := await(t, responsesCh)
	if response.Status.Success || response.Status.Message != "Valid Request object missing" {
		t.Fatalf("unexpected response %+v", response.Status)
	}
	if service.hits.Load() != 0 {
		t.Fatalf("expected no network call")
	}
}
