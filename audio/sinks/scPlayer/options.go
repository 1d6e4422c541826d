package scPlayer

import (
	"time"
)

// Option is the type for a function option
type Option func(*Options)

// Options contains the parameters for initializing a soundcard player.
type Options struct {
	HostAPI    string
	DeviceName string
	Samplerate float64
	ChunkLen   int
	Latency    time.Duration
}

// HostAPI is a functional option to enforce the usage of a particular
// audio host API
func HostAPI(hostAPI string) Option {
	return func(args *Options) {
		args.HostAPI = hostAPI
	}
}

// DeviceName is a functional option to specify the name of the
// audio output device
func DeviceName(name string) Option {
	return func(args *Options) {
		args.DeviceName = name
	}
}

// Samplerate is a functional option to set the sampling rate of the
// audio device. Make sure your audio device supports the specified
// sampling rate.
func Samplerate(s float64) Option {
	return func(args *Options) {
		args.Samplerate = s
	}
}

// ChunkLen is a functional option announcing the mono chunk length of
// the rendering pipeline. The leftover stash is sized to hold one
// stereo chunk.
func ChunkLen(n int) Option {
	return func(args *Options) {
		args.ChunkLen = n
	}
}

// Latency is a functional option to set the latency of the audio device.
func Latency(t time.Duration) Option {
	return func(args *Options) {
		args.Latency = t
	}
}
