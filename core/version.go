package conversation

// APIBaseURL is the public endpoint of the conversation service.
const APIBaseURL = "https://conversation.pullstring.ai/v1/"

type Feature string

const FeatureStreamingASR Feature = "streaming-asr"

// HasFeature reports whether this client supports feature.
func HasFeature(feature Feature) bool {
	switch feature {
	case FeatureStreamingASR:
		return true
	}
	return false
}
