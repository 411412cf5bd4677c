package feed

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParseTicker(t *testing.T) {
	msg := []byte(`{"e":"24hrTicker","E":1700000000123,"s":"ETHUSDT","c":"2013.37","b":"2013.30","a":"2013.40"}`)

	tick, err := parseTicker(msg)
	require.NoError(t, err)

	require.Equal(t, "binance", tick.Exchange)
	require.Equal(t, "ethusdt", tick.Symbol)
	require.Equal(t, 2013.37, tick.Price)
	require.Equal(t, time.UnixMilli(1700000000123).UTC(), tick.Time)
}

func TestParseTicker_Malformed(t *testing.T) {
	cases := []struct {
		name string
		msg  string
	}{
		{"not json", `{{`},
		{"missing price", `{"e":"24hrTicker","s":"ETHUSDT"}`},
		{"unparsable price", `{"s":"ETHUSDT","c":"n/a"}`},
		{"zero price", `{"s":"ETHUSDT","c":"0"}`},
		{"negative price", `{"s":"ETHUSDT","c":"-5"}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := parseTicker([]byte(tc.msg))
			require.Error(t, err)
		})
	}
}

func TestNewBinanceSource(t *testing.T) {
	_, err := NewBinanceSource(BinanceOptions{})
	require.Error(t, err)

	src, err := NewBinanceSource(BinanceOptions{Symbol: "ETHUSDT"})
	require.NoError(t, err)
	require.Equal(t, "binance", src.Name())
	require.Equal(t, "ethusdt", src.symbol)
	require.Equal(t, defaultBinanceWSURL, src.url)
}
