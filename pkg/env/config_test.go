package env

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOpenStreamInvalid(t *testing.T) {
	cases := []string{
		"ftp://host/x",
		"serial:///dev/ttyX?baud=fast",
		"://bad",
	}
	for _, linkURL := range cases {
		conf := NewConfig()
		conf.LinkURL = linkURL
		_, err := conf.OpenStream()
		require.Errorf(t, err, linkURL)
	}
}

func TestNewConfigCopies(t *testing.T) {
	conf := NewConfig()
	conf.LinkURL = "ws://bridge/uart"
	require.NotEqual(t, conf.LinkURL, Default().LinkURL)
}
