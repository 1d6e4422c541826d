package cmd

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/dh1tw/spatialAudio/utils"
)

// hostAPIs lists the portaudio host apis the player knows how to
// negotiate.
var hostAPIs = []string{
	"default",
	"indevelopment",
	"directsound",
	"mme",
	"asio",
	"soundmanager",
	"coreaudio",
	"oss",
	"alsa",
	"al",
	"beos",
	"wdmks",
	"jack",
	"wasapi",
	"audiosciencehpi",
}

func checkAudioParameterValues() error {

	if steps := viper.GetInt("audio.interpolation-steps"); steps < 1 || steps > 64 {
		return &parmError{
			parm: "audio.interpolation-steps",
			msg:  "allowed values are [1...64]",
		}
	}

	if bl := viper.GetInt("audio.block-length"); bl < 16 || bl > 8192 {
		return &parmError{
			parm: "audio.block-length",
			msg:  "allowed values are [16...8192]",
		}
	}

	if viper.GetInt("audio.queue-length") <= 0 {
		return &parmError{
			parm: "audio.queue-length",
			msg:  "value must be > 0",
		}
	}

	if hl := viper.GetInt("audio.hrtf-length"); hl < 8 || hl > 4096 {
		return &parmError{
			parm: "audio.hrtf-length",
			msg:  "allowed values are [8...4096]",
		}
	}

	if vol := viper.GetInt("audio.volume"); vol < 0 || vol > 100 {
		return &parmError{
			parm: "audio.volume",
			msg:  "allowed values are [0...100]",
		}
	}

	if sr := viper.GetFloat64("output-device.samplerate"); sr <= 0 {
		return &parmError{
			parm: "output-device.samplerate",
			msg:  "value must be > 0",
		}
	}

	hostAPI := viper.GetString("output-device.host-api")
	if len(hostAPI) > 0 && !utils.StringInSlice(hostAPI, hostAPIs) {
		return &parmError{
			parm: "output-device.host-api",
			msg:  fmt.Sprintf("allowed values are %v", hostAPIs),
		}
	}

	return nil
}

type parmError struct {
	parm string
	msg  string
}

func (p *parmError) Error() string {
	return fmt.Sprintf("%v: %v\n", p.parm, p.msg)
}
