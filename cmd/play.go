// Copyright © 2016 Tobias Wellnitz, DH1TW <Tobias.Wellnitz@gmail.com>
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

package cmd

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/chewxy/math32"
	"github.com/cskr/pubsub"
	"github.com/gordonklaus/portaudio"
	"github.com/spf13/cast"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dh1tw/spatialAudio/audio"
	"github.com/dh1tw/spatialAudio/audio/chain"
	"github.com/dh1tw/spatialAudio/audio/handoff"
	"github.com/dh1tw/spatialAudio/audio/nodes/bandfilter"
	"github.com/dh1tw/spatialAudio/audio/nodes/crosstalk"
	"github.com/dh1tw/spatialAudio/audio/orientation"
	"github.com/dh1tw/spatialAudio/audio/resampler"
	"github.com/dh1tw/spatialAudio/audio/sinks/scPlayer"
	"github.com/dh1tw/spatialAudio/audio/sources/wavSource"
	"github.com/dh1tw/spatialAudio/audio/spatializer/hrtf"
	"github.com/dh1tw/spatialAudio/events"
	"github.com/dh1tw/spatialAudio/webserver"
)

// playCmd represents the play command
var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play a mono wav file as binaural audio on the local soundcard",
	Long: `Play a mono wav file as binaural audio on the local soundcard.

While the audio is playing, the position of the sound source can be
changed with the keyboard ('a' / 'd' rotate, '+' / '-' volume), through
the REST / websocket API (--web) or automatically (--orbit).`,
	Run: play,
}

func init() {
	RootCmd.AddCommand(playCmd)
	playCmd.Flags().StringP("input-file", "i", "", "mono wav file to play")
	playCmd.Flags().StringP("output-device-name", "o", "default", "output device")
	playCmd.Flags().Float64P("samplerate", "s", 48000, "output device sampling rate")
	playCmd.Flags().Duration("latency", time.Millisecond*5, "output device latency")
	playCmd.Flags().String("host-api", "default", "portaudio host api")
	playCmd.Flags().Int("interpolation-steps", audio.DefaultInterpolationSteps,
		"orientation interpolation blocks per chunk")
	playCmd.Flags().Int("block-length", audio.DefaultBlockLen,
		"samples per interpolation block")
	playCmd.Flags().Int("queue-length", handoff.DefaultCapacity,
		"capacity of the playback queue in chunks")
	playCmd.Flags().Int("hrtf-length", 64, "length of the HRTF impulse responses")
	playCmd.Flags().Float64Slice("band-gains", []float64{1, 1, 1, 1, 1},
		"initial gains of the 5 filter bands")
	playCmd.Flags().Int32P("volume", "V", 70, "playback volume on startup")
	playCmd.Flags().Duration("orbit", 0,
		"rotate the source around the listener with the given period (0 disables)")
	playCmd.Flags().Bool("crosstalk", false,
		"simulate loudspeaker crosstalk (for playback over speakers)")
	playCmd.Flags().BoolP("web", "w", false, "enable the REST / websocket interface")
	playCmd.Flags().String("http-host", "127.0.0.1",
		"Host (use '0.0.0.0' to listen on all network adapters)")
	playCmd.Flags().Int("http-port", 9090, "Port to access the web interface")
	playCmd.Flags().Bool("keyboard", true, "enable keyboard control on stdin")
}

func play(cmd *cobra.Command, args []string) {

	// Try to read config file
	if err := viper.ReadInConfig(); err == nil {
		fmt.Println("Using config file:", viper.ConfigFileUsed())
	} else {
		if strings.Contains(err.Error(), "Not Found in") {
			fmt.Println("no config file found")
		} else {
			fmt.Fprintf(os.Stderr, "Error parsing config file %v: %v\n",
				viper.ConfigFileUsed(), err)
			os.Exit(1)
		}
	}

	// bind the pflags to viper settings
	viper.BindPFlag("input.file", cmd.Flags().Lookup("input-file"))
	viper.BindPFlag("output-device.device-name", cmd.Flags().Lookup("output-device-name"))
	viper.BindPFlag("output-device.samplerate", cmd.Flags().Lookup("samplerate"))
	viper.BindPFlag("output-device.latency", cmd.Flags().Lookup("latency"))
	viper.BindPFlag("output-device.host-api", cmd.Flags().Lookup("host-api"))
	viper.BindPFlag("audio.interpolation-steps", cmd.Flags().Lookup("interpolation-steps"))
	viper.BindPFlag("audio.block-length", cmd.Flags().Lookup("block-length"))
	viper.BindPFlag("audio.queue-length", cmd.Flags().Lookup("queue-length"))
	viper.BindPFlag("audio.hrtf-length", cmd.Flags().Lookup("hrtf-length"))
	viper.BindPFlag("audio.band-gains", cmd.Flags().Lookup("band-gains"))
	viper.BindPFlag("audio.volume", cmd.Flags().Lookup("volume"))
	viper.BindPFlag("audio.orbit", cmd.Flags().Lookup("orbit"))
	viper.BindPFlag("audio.crosstalk", cmd.Flags().Lookup("crosstalk"))
	viper.BindPFlag("http.enabled", cmd.Flags().Lookup("web"))
	viper.BindPFlag("http.host", cmd.Flags().Lookup("http-host"))
	viper.BindPFlag("http.port", cmd.Flags().Lookup("http-port"))
	viper.BindPFlag("audio.keyboard", cmd.Flags().Lookup("keyboard"))

	// check if values from config file / pflags are valid
	if err := checkAudioParameterValues(); err != nil {
		exit(err)
	}

	// viper settings need to be copied in local variables
	// since viper lookups allocate of each lookup a copy
	// and are quite inperformant
	inputFile := viper.GetString("input.file")
	oDeviceName := viper.GetString("output-device.device-name")
	oSamplerate := viper.GetFloat64("output-device.samplerate")
	oLatency := viper.GetDuration("output-device.latency")
	oHostAPI := viper.GetString("output-device.host-api")
	steps := viper.GetInt("audio.interpolation-steps")
	blockLen := viper.GetInt("audio.block-length")
	queueLen := viper.GetInt("audio.queue-length")
	hrtfLen := viper.GetInt("audio.hrtf-length")
	volume := viper.GetInt("audio.volume")
	orbit := viper.GetDuration("audio.orbit")
	withCrosstalk := viper.GetBool("audio.crosstalk")
	webEnabled := viper.GetBool("http.enabled")
	httpHost := viper.GetString("http.host")
	httpPort := viper.GetInt("http.port")
	withKeyboard := viper.GetBool("audio.keyboard")

	if len(inputFile) == 0 {
		exit(fmt.Errorf("no input file provided (--input-file)"))
	}

	bandGains, err := getBandGains()
	if err != nil {
		exit(err)
	}

	portaudio.Initialize()
	defer portaudio.Terminate()

	src, err := wavSource.NewWavSource(inputFile)
	if err != nil {
		exit(err)
	}

	samples, err := resampler.Resample(src.Samples(),
		float64(src.SampleRate()), oSamplerate)
	if err != nil {
		exit(err)
	}

	irs, err := hrtf.SyntheticSet(oSamplerate, hrtfLen)
	if err != nil {
		exit(err)
	}

	engine, err := hrtf.New(irs, steps, blockLen)
	if err != nil {
		exit(err)
	}

	queue := handoff.NewQueue(queueLen)

	speaker, err := scPlayer.NewScPlayer(queue,
		scPlayer.HostAPI(oHostAPI),
		scPlayer.DeviceName(oDeviceName),
		scPlayer.Samplerate(oSamplerate),
		scPlayer.Latency(oLatency),
		scPlayer.ChunkLen(steps*blockLen),
	)
	if err != nil {
		exit(err)
	}
	speaker.SetVolume(float32(volume) / 100)

	chainOpts := []chain.Option{
		chain.Source(samples),
		chain.Samplerate(oSamplerate),
		chain.InterpolationSteps(steps),
		chain.BlockLen(blockLen),
		chain.Engine(engine),
		chain.Queue(queue),
		chain.Sink(speaker),
		chain.BandGains(bandGains),
	}

	if withCrosstalk {
		ct, err := crosstalk.New(oSamplerate)
		if err != nil {
			exit(err)
		}
		chainOpts = append(chainOpts, chain.PostProcess(func(c audio.StereoChunk) {
			if err := ct.Process(c); err != nil {
				log.Println(err)
			}
		}))
	}

	ch, err := chain.NewChain(chainOpts...)
	if err != nil {
		exit(err)
	}

	evPS := pubsub.New(10)

	if webEnabled {
		web, err := webserver.NewWebServer(httpHost, httpPort, ch, evPS)
		if err != nil {
			exit(err)
		}
		go func() {
			if err := web.Start(); err != nil {
				log.Println(err)
			}
		}()
	}

	if err := ch.Start(); err != nil {
		exit(err)
	}

	go events.WatchSystemEvents(evPS)
	if withKeyboard {
		go events.CaptureKeyboard(evPS)
	}
	if orbit > 0 {
		go orbitSource(ch, evPS, orbit)
	}

	rotateCh := evPS.Sub(events.RotateBy)
	volumeCh := evPS.Sub(events.VolumeDelta)
	osExitCh := evPS.Sub(events.OsExit)

	var azimuth float32

	for {
		select {
		case <-ch.Done():
			// source played to the end; let the speaker drain the
			// remaining chunks before shutting down
			ch.Stop()
			speaker.Close()
			return

		case ev := <-rotateCh:
			azimuth += ev.(float32)
			ch.SetOrientation(positionAt(azimuth, ch.Orientation().Gain))
			evPS.Pub(true, events.StateUpdate)

		case ev := <-volumeCh:
			vol := ch.Volume() + ev.(float32)
			if vol < 0 {
				vol = 0
			} else if vol > 1 {
				vol = 1
			}
			ch.SetVolume(vol)
			evPS.Pub(true, events.StateUpdate)

		case <-osExitCh:
			ch.Stop()
			speaker.Close()
			return
		}
	}
}

// positionAt returns the listener orientation for a source at the given
// azimuth (degrees, clockwise, 0 = straight ahead) on the horizontal
// plane.
func positionAt(azimuth, gain float32) orientation.Position {
	rad := azimuth * math32.Pi / 180
	return orientation.Position{
		Direction: [3]float32{math32.Sin(rad), 0, -math32.Cos(rad)},
		Gain:      gain,
	}
}

// orbitSource rotates the source around the listener with the given
// period.
func orbitSource(ch *chain.Chain, evPS *pubsub.PubSub, period time.Duration) {

	const tick = 50 * time.Millisecond
	degPerTick := float32(360 * tick.Seconds() / period.Seconds())

	var azimuth float32
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for {
		select {
		case <-ch.Done():
			return
		case <-ticker.C:
			azimuth += degPerTick
			if azimuth >= 360 {
				azimuth -= 360
			}
			ch.SetOrientation(positionAt(azimuth, ch.Orientation().Gain))
		}
	}
}

// getBandGains reads and validates the band gains setting. Depending on
// whether the value comes from the pflag or from a config file, viper
// returns a different slice type.
func getBandGains() ([bandfilter.NumBands]float32, error) {

	var gains [bandfilter.NumBands]float32
	var fVals []float64

	switch v := viper.Get("audio.band-gains").(type) {
	case []float64:
		fVals = v
	case []interface{}:
		for _, e := range v {
			f, err := cast.ToFloat64E(e)
			if err != nil {
				return gains, &parmError{
					parm: "audio.band-gains",
					msg:  "values must be numbers",
				}
			}
			fVals = append(fVals, f)
		}
	default:
		return gains, &parmError{
			parm: "audio.band-gains",
			msg:  "values must be numbers",
		}
	}

	if len(fVals) != bandfilter.NumBands {
		return gains, &parmError{
			parm: "audio.band-gains",
			msg:  fmt.Sprintf("exactly %d values required", bandfilter.NumBands),
		}
	}
	for i, g := range fVals {
		if g < 0 {
			return gains, &parmError{
				parm: "audio.band-gains",
				msg:  "values must not be negative",
			}
		}
		gains[i] = float32(g)
	}
	return gains, nil
}

// exit prints the error to stderr, stops portaudio and returns with exit
// code 1
func exit(err error) {
	fmt.Fprintln(os.Stderr, err)
	portaudio.Terminate()
	os.Exit(1)
}
