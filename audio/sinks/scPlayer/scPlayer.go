package scPlayer

import (
	"fmt"
	"log"
	"runtime"
	"strings"
	"sync"
	"time"

	pa "github.com/gordonklaus/portaudio"

	"github.com/dh1tw/spatialAudio/audio"
	"github.com/dh1tw/spatialAudio/audio/handoff"
)

// ScPlayer implements the audio.Sink interface and plays rendered
// stereo chunks on a local audio output device (e.g. speakers or
// headphones). It is the real-time consumer of the handoff queue: the
// portaudio callback drains the queue, stitches chunks into the device
// buffer and substitutes silence on underrun.
type ScPlayer struct {
	sync.RWMutex
	options    Options
	deviceInfo *pa.DeviceInfo
	stream     *pa.Stream
	drain      *drainBuf
	volume     float32
	underruns  uint64
}

// NewScPlayer returns a player draining the given handoff queue into a
// specific audio output device. A missing device or an unsupported
// configuration is fatal here; no stream is constructed.
func NewScPlayer(in *handoff.Queue, opts ...Option) (*ScPlayer, error) {

	if in == nil {
		return nil, fmt.Errorf("player: no handoff queue provided")
	}

	p := &ScPlayer{
		options: Options{
			DeviceName: "default",
			HostAPI:    "default",
			Samplerate: 48000,
			ChunkLen:   audio.DefaultInterpolationSteps * audio.DefaultBlockLen,
			Latency:    time.Millisecond * 10,
		},
		volume: 0.7,
	}

	for _, option := range opts {
		option(&p.options)
	}

	p.drain = newDrainBuf(in, p.options.ChunkLen*2)

	var hostAPI *pa.HostApiInfo

	if p.options.HostAPI == "default" {
		switch runtime.GOOS {
		case "windows":
			// try to use WASAPI since it provides lower latency than the
			// other windows audio apis
			ha, err := pa.HostApi(pa.WASAPI)
			if err != nil {
				// try to fallback to the default API
				ha, err = pa.DefaultHostApi()
				if err != nil {
					return nil, fmt.Errorf("unable to determine the default host api - please provide a specific host api")
				}
			}
			hostAPI = ha
		default:
			// all other OS
			ha, err := pa.DefaultHostApi()
			if err != nil {
				return nil, fmt.Errorf("unable to determine the default host api - please provide a specific host api")
			}
			hostAPI = ha
		}
	} else {
		// non-default HostAPI
		ha, err := getHostAPI(p.options.HostAPI)
		if err != nil {
			return nil, err
		}
		hostAPI = ha
	}

	if p.options.DeviceName == "default" {
		p.deviceInfo = hostAPI.DefaultOutputDevice
	} else {
		dev, err := getPaDevice(p.options.DeviceName, hostAPI)
		if err != nil {
			return nil, err
		}
		p.deviceInfo = dev
	}

	if p.deviceInfo == nil {
		return nil, fmt.Errorf("no output audio device available")
	}

	// setup Audio Stream
	streamDeviceParam := pa.StreamDeviceParameters{
		Device:   p.deviceInfo,
		Channels: 2,
		Latency:  p.options.Latency,
	}

	streamParm := pa.StreamParameters{
		FramesPerBuffer: pa.FramesPerBufferUnspecified,
		Output:          streamDeviceParam,
		SampleRate:      p.options.Samplerate,
	}

	stream, err := pa.OpenStream(streamParm, p.playCb)
	if err != nil {
		return nil,
			fmt.Errorf("unable to open playback audio stream on device %s: %s",
				p.options.DeviceName, err)
	}

	p.stream = stream
	log.Printf("output sound device: %s, HostAPI: %s\n", p.deviceInfo.Name, p.deviceInfo.HostApi.Name)

	return p, nil
}

// portaudio callback which will be called continuously when the stream
// is started. The buffer size is chosen by the device and varies from
// call to call; this function must be short and never block.
func (p *ScPlayer) playCb(out []float32,
	iTime pa.StreamCallbackTimeInfo,
	iFlags pa.StreamCallbackFlags) {

	p.RLock()
	vol := p.volume
	p.RUnlock()

	filled := p.drain.fill(out, vol)

	if filled < len(out) {
		// underrun; the silence is already in place, just count it
		p.Lock()
		p.underruns++
		p.Unlock()
	}
}

// Start starts streaming audio to the output device.
func (p *ScPlayer) Start() error {
	if p.stream == nil {
		return fmt.Errorf("portaudio stream not initialized")
	}
	return p.stream.Start()
}

// Stop stops streaming audio.
func (p *ScPlayer) Stop() error {
	if p.stream == nil {
		return fmt.Errorf("portaudio stream not initialized")
	}
	return p.stream.Stop()
}

// Close shuts down the audio stream on the soundcard.
func (p *ScPlayer) Close() error {
	if p.stream == nil {
		return fmt.Errorf("portaudio stream not initialized")
	}
	p.stream.Abort()
	p.stream.Stop()
	return nil
}

// SetVolume sets the volume for all upcoming audio frames.
func (p *ScPlayer) SetVolume(v float32) {
	p.Lock()
	defer p.Unlock()
	if v < 0 {
		p.volume = 0
	} else if v > 1 {
		p.volume = 1
	} else {
		p.volume = v
	}
}

// Volume returns the current volume.
func (p *ScPlayer) Volume() float32 {
	p.RLock()
	defer p.RUnlock()
	return p.volume
}

// Underruns returns the number of callbacks which had to substitute
// silence because no rendered chunk was ready in time.
func (p *ScPlayer) Underruns() uint64 {
	p.RLock()
	defer p.RUnlock()
	return p.underruns
}

// Flush discards the leftover stash.
func (p *ScPlayer) Flush() {
	p.Lock()
	defer p.Unlock()
	p.drain.reset()
}

// getHostAPI takes the name of a supported portaudio host api and returns
// the corresponding portaudio hostApiInfo object
func getHostAPI(name string) (*pa.HostApiInfo, error) {

	var hostAPIType pa.HostApiType

	switch strings.ToLower(name) {
	case "indevelopment":
		hostAPIType = pa.InDevelopment
	case "directsound":
		hostAPIType = pa.DirectSound
	case "mme":
		hostAPIType = pa.MME
	case "asio":
		hostAPIType = pa.ASIO
	case "soundmanager":
		hostAPIType = pa.SoundManager
	case "coreaudio":
		hostAPIType = pa.CoreAudio
	case "oss":
		hostAPIType = pa.OSS
	case "alsa":
		hostAPIType = pa.ALSA
	case "al":
		hostAPIType = pa.AL
	case "beos":
		hostAPIType = pa.BeOS
	case "wdmks":
		hostAPIType = pa.WDMkS
	case "jack":
		hostAPIType = pa.JACK
	case "wasapi":
		hostAPIType = pa.WASAPI
	case "audiosciencehpi":
		hostAPIType = pa.AudioScienceHPI
	default:
		return nil, fmt.Errorf("unknown host api type: %s", name)
	}

	hostAPIInfo, err := pa.HostApi(hostAPIType)
	if err != nil {
		return nil, fmt.Errorf("unable to load host api %s: %s", name, err.Error())
	}

	return hostAPIInfo, nil
}

// getPaDevice checks if the audio device actually exists and
// then returns it
func getPaDevice(name string, hostAPI *pa.HostApiInfo) (*pa.DeviceInfo, error) {
	for _, device := range hostAPI.Devices {
		if strings.EqualFold(device.Name, name) {
			return device, nil
		}
	}
	return nil, fmt.Errorf("unknown audio device '%s'", name)
}
