package atmix

import (
	"github.com/abdulrabbt/audio-track-mixer/browser"
	"github.com/abdulrabbt/audio-track-mixer/log"
	"github.com/abdulrabbt/audio-track-mixer/track"
)

type (
	// StreamCapturer is the standard capture capability of a media
	// element.
	StreamCapturer interface {
		CaptureStream() *track.MediaStream
	}

	// VendorStreamCapturer is the vendor-prefixed capture variant
	// exposed by Firefox-like hosts.
	VendorStreamCapturer interface {
		VendorCaptureStream() *track.MediaStream
	}

	// AudioTrackLister is the legacy capability of old-Edge-like
	// hosts: no stream capture, just the element's audio tracks.
	AudioTrackLister interface {
		AudioTracks() []track.Track
	}
)

var elementLogger log.Logger = log.GetLogger()

// MediaStreamFromElement captures a media stream from an element,
// probing the capture strategies supported by the detected browser.
// A missing capability is not an error: it is reported through a
// diagnostic warning naming the environment, and nil is returned.
func MediaStreamFromElement(element interface{}, userAgent string) *track.MediaStream {
	env := browser.Detect(userAgent)
	if env.IsFirefox() {
		if capturer, ok := element.(VendorStreamCapturer); ok {
			return capturer.VendorCaptureStream()
		}
	}
	if capturer, ok := element.(StreamCapturer); ok {
		return capturer.CaptureStream()
	}
	if capturer, ok := element.(VendorStreamCapturer); ok {
		return capturer.VendorCaptureStream()
	}
	if lister, ok := element.(AudioTrackLister); ok {
		return track.NewMediaStream(lister.AudioTracks()...)
	}
	elementLogger.Warn("stream capture is not supported in ", env.String())
	return nil
}

// TracksFromAudioElement returns the audio tracks of a media element.
// Old Edge exposes them directly, other browsers go through stream
// capture. A missing capability yields a diagnostic warning and an
// empty result.
func TracksFromAudioElement(element interface{}, userAgent string) []track.Track {
	env := browser.Detect(userAgent)
	if env.IsOldEdge() {
		if lister, ok := element.(AudioTrackLister); ok {
			return lister.AudioTracks()
		}
	}
	if stream := MediaStreamFromElement(element, userAgent); stream != nil {
		return stream.AudioTracks()
	}
	return nil
}
