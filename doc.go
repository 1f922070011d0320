/*
Package atmix mixes multiple live audio tracks into a single combined
track.

Concept

A mixer owns one audio-graph context. Every added track gets its own
chain:

	source -> gain -> destination

The destination carries the mix as a live media stream with exactly
one audio track. An analyser is wired to the destination's own stream,
so the mixer can meter its own output:

	m, err := atmix.New()
	if err != nil {
		// host cannot provide an audio graph
	}
	err = m.AddTrack(t, atmix.WithVolume(75))
	level := m.MixedTrackVolume()
	done := m.Destroy()
	err = <-done

The audio-graph backend is injected via ContextFactory. The default is
the software engine; tests may substitute a fake.

Per-track operations validate the track kind and key the registry by
track id. Adding a registered id fails, removing an unknown one is a
no-op. Mute flips the track's enabled flag and leaves gain and wiring
untouched.
*/
package atmix
