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

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dh1tw/spatialAudio/audio"
	"github.com/dh1tw/spatialAudio/audio/chain"
	"github.com/dh1tw/spatialAudio/audio/handoff"
	"github.com/dh1tw/spatialAudio/audio/nodes/crosstalk"
	"github.com/dh1tw/spatialAudio/audio/resampler"
	"github.com/dh1tw/spatialAudio/audio/sinks/wavSink"
	"github.com/dh1tw/spatialAudio/audio/sources/wavSource"
	"github.com/dh1tw/spatialAudio/audio/spatializer/hrtf"
)

// renderCmd represents the render command
var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render a mono wav file into a binaural stereo wav file",
	Long: `Render a mono wav file into a binaural stereo wav file.

The rendering runs faster than real time and writes the result to disk,
with the source placed at a fixed azimuth relative to the listener.`,
	Run: render,
}

func init() {
	RootCmd.AddCommand(renderCmd)
	renderCmd.Flags().StringP("input-file", "i", "", "mono wav file to render")
	renderCmd.Flags().StringP("output-file", "o", "out.wav", "stereo wav file to write")
	renderCmd.Flags().Float64P("samplerate", "s", 48000, "samplerate of the rendered file")
	renderCmd.Flags().Float64P("azimuth", "a", 0,
		"azimuth of the source in degrees (0 = ahead, 90 = right)")
	renderCmd.Flags().Int("interpolation-steps", audio.DefaultInterpolationSteps,
		"orientation interpolation blocks per chunk")
	renderCmd.Flags().Int("block-length", audio.DefaultBlockLen,
		"samples per interpolation block")
	renderCmd.Flags().Int("queue-length", handoff.DefaultCapacity,
		"capacity of the handoff queue in chunks")
	renderCmd.Flags().Int("hrtf-length", 64, "length of the HRTF impulse responses")
	renderCmd.Flags().Float64Slice("band-gains", []float64{1, 1, 1, 1, 1},
		"gains of the 5 filter bands")
	renderCmd.Flags().Bool("crosstalk", false, "simulate loudspeaker crosstalk")
}

func render(cmd *cobra.Command, args []string) {

	// Try to read config file
	if err := viper.ReadInConfig(); err == nil {
		fmt.Println("Using config file:", viper.ConfigFileUsed())
	} else {
		if !strings.Contains(err.Error(), "Not Found in") {
			fmt.Fprintf(os.Stderr, "Error parsing config file %v: %v\n",
				viper.ConfigFileUsed(), err)
			os.Exit(1)
		}
	}

	// bind the pflags to viper settings
	viper.BindPFlag("input.file", cmd.Flags().Lookup("input-file"))
	viper.BindPFlag("output.file", cmd.Flags().Lookup("output-file"))
	viper.BindPFlag("output-device.samplerate", cmd.Flags().Lookup("samplerate"))
	viper.BindPFlag("output.azimuth", cmd.Flags().Lookup("azimuth"))
	viper.BindPFlag("audio.interpolation-steps", cmd.Flags().Lookup("interpolation-steps"))
	viper.BindPFlag("audio.block-length", cmd.Flags().Lookup("block-length"))
	viper.BindPFlag("audio.queue-length", cmd.Flags().Lookup("queue-length"))
	viper.BindPFlag("audio.hrtf-length", cmd.Flags().Lookup("hrtf-length"))
	viper.BindPFlag("audio.band-gains", cmd.Flags().Lookup("band-gains"))
	viper.BindPFlag("audio.crosstalk", cmd.Flags().Lookup("crosstalk"))

	if err := checkAudioParameterValues(); err != nil {
		exitNoAudio(err)
	}

	inputFile := viper.GetString("input.file")
	outputFile := viper.GetString("output.file")
	samplerate := viper.GetFloat64("output-device.samplerate")
	azimuth := viper.GetFloat64("output.azimuth")
	steps := viper.GetInt("audio.interpolation-steps")
	blockLen := viper.GetInt("audio.block-length")
	queueLen := viper.GetInt("audio.queue-length")
	hrtfLen := viper.GetInt("audio.hrtf-length")
	withCrosstalk := viper.GetBool("audio.crosstalk")

	if len(inputFile) == 0 {
		exitNoAudio(fmt.Errorf("no input file provided (--input-file)"))
	}

	bandGains, err := getBandGains()
	if err != nil {
		exitNoAudio(err)
	}

	src, err := wavSource.NewWavSource(inputFile)
	if err != nil {
		exitNoAudio(err)
	}

	samples, err := resampler.Resample(src.Samples(),
		float64(src.SampleRate()), samplerate)
	if err != nil {
		exitNoAudio(err)
	}

	irs, err := hrtf.SyntheticSet(samplerate, hrtfLen)
	if err != nil {
		exitNoAudio(err)
	}

	engine, err := hrtf.New(irs, steps, blockLen)
	if err != nil {
		exitNoAudio(err)
	}

	queue := handoff.NewQueue(queueLen)

	sink, err := wavSink.NewWavSink(outputFile, queue,
		wavSink.Samplerate(samplerate))
	if err != nil {
		exitNoAudio(err)
	}

	chainOpts := []chain.Option{
		chain.Source(samples),
		chain.Samplerate(samplerate),
		chain.InterpolationSteps(steps),
		chain.BlockLen(blockLen),
		chain.Engine(engine),
		chain.Queue(queue),
		chain.Sink(sink),
		chain.BandGains(bandGains),
		chain.Position(positionAt(float32(azimuth), 1)),
		chain.Unpaced(),
	}

	if withCrosstalk {
		ct, err := crosstalk.New(samplerate)
		if err != nil {
			exitNoAudio(err)
		}
		chainOpts = append(chainOpts, chain.PostProcess(func(c audio.StereoChunk) {
			if err := ct.Process(c); err != nil {
				log.Println(err)
			}
		}))
	}

	ch, err := chain.NewChain(chainOpts...)
	if err != nil {
		exitNoAudio(err)
	}

	start := time.Now()

	if err := ch.Start(); err != nil {
		exitNoAudio(err)
	}

	<-ch.Done()

	if err := ch.Stop(); err != nil {
		exitNoAudio(err)
	}
	if err := sink.Close(); err != nil {
		exitNoAudio(err)
	}

	fmt.Printf("rendered %s in %v\n", outputFile, time.Since(start).Round(time.Millisecond))
}

// exitNoAudio prints the error to stderr and returns with exit code 1.
// Unlike exit it does not touch portaudio, which is never initialized
// for offline rendering.
func exitNoAudio(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
