package gxstream

import (
	"testing"
	"time"

	"github.com/Gurux/gxcommon-go"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func TestSettings_Defaults(t *testing.T) {
	s := DefaultSettings()
	require.Equal(t, TransportTypeSerial, s.Type)
	require.Equal(t, gxcommon.BaudRate(9600), s.BaudRate)
	require.Equal(t, 8, s.DataBits)
	require.Equal(t, gxcommon.StopBitsOne, s.StopBits)
	require.Equal(t, gxcommon.ParityNone, s.Parity)
	require.Equal(t, 200*time.Millisecond, s.ReadTimeout)
	require.Equal(t, 2000*time.Millisecond, s.WriteTimeout)
	require.Equal(t, 5, s.MaxOpenAttempts)
	require.Equal(t, PollModeEveryTick, s.PollMode)
	require.True(t, s.AutoCycle)
	require.Equal(t, "\n", s.NewLine)
}

func TestSettings_XMLRoundTrip(t *testing.T) {
	src := NewGXNetStream("meter<1>", 4059)
	cfg := src.Configuration()
	cfg.BaudRate = gxcommon.BaudRate(19200)
	cfg.DataBits = 7
	cfg.StopBits = gxcommon.StopBitsTwo
	cfg.Parity = gxcommon.ParityEven
	cfg.ReadTimeout = 500 * time.Millisecond
	cfg.WriteTimeout = time.Second
	cfg.ConnectTimeout = 3 * time.Second
	cfg.MaxOpenAttempts = 2
	cfg.PollMode = PollModeOnDataAvailable
	cfg.AutoCycle = false
	cfg.NewLine = "\r\n"
	require.NoError(t, src.SetConfiguration(cfg))

	xml := src.GetSettings()
	require.Contains(t, xml, "<Endpoint>meter&lt;1&gt;:4059</Endpoint>")
	require.Contains(t, xml, "<NewLine>&#xD;&#xA;</NewLine>")

	dst := NewGXStream(DefaultSettings())
	require.NoError(t, dst.SetSettings(xml))
	got := dst.Configuration()
	require.Equal(t, cfg, got)
}

func TestSettings_DefaultsWriteNothing(t *testing.T) {
	g := NewGXStream(DefaultSettings())
	require.Empty(t, g.GetSettings())
	require.NoError(t, g.SetSettings(""))
	require.Equal(t, DefaultSettings(), g.Configuration())
}

func TestSettings_FromXMLByName(t *testing.T) {
	s := DefaultSettings()
	require.NoError(t, s.fromXML("<Type>TCP</Type><Endpoint>host:1</Endpoint><PollMode>OnDataAvailable</PollMode><Unknown>1</Unknown>"))
	require.Equal(t, TransportTypeTCP, s.Type)
	require.Equal(t, "host:1", s.Endpoint)
	require.Equal(t, PollModeOnDataAvailable, s.PollMode)
}

func TestSettings_FromXMLInvalid(t *testing.T) {
	s := DefaultSettings()
	require.Error(t, s.fromXML("<ByteSize>eight</ByteSize>"))
	require.Error(t, s.fromXML("<ReadTimeout>soon</ReadTimeout>"))
	require.ErrorIs(t, s.fromXML("<Type>Pipe</Type>"), gxcommon.ErrUnknownEnum)
	require.Error(t, s.fromXML("<Endpoint>"))
}

func TestSettings_Validate(t *testing.T) {
	g := NewGXStream(DefaultSettings())
	require.Error(t, g.Validate())

	require.NoError(t, g.SetEndpoint("/dev/ttyS0"))
	require.NoError(t, g.Validate())

	require.NoError(t, g.SetDataBits(9))
	require.ErrorIs(t, g.Validate(), gxcommon.ErrInvalidArgument)
	require.NoError(t, g.SetDataBits(8))

	g.SetMaxOpenAttempts(0)
	require.ErrorIs(t, g.Validate(), gxcommon.ErrInvalidArgument)
	g.SetMaxOpenAttempts(1)

	require.NoError(t, g.SetReadTimeout(-time.Second))
	require.ErrorIs(t, g.Validate(), gxcommon.ErrInvalidArgument)
}

func TestTransportType_ParseAndString(t *testing.T) {
	for _, tt := range []TransportType{TransportTypeSerial, TransportTypeTCP} {
		got, err := TransportTypeParse(tt.String())
		require.NoError(t, err)
		require.Equal(t, tt, got)
	}
	got, err := TransportTypeParse(" tcp ")
	require.NoError(t, err)
	require.Equal(t, TransportTypeTCP, got)
	_, err = TransportTypeParse("udp")
	require.ErrorIs(t, err, gxcommon.ErrUnknownEnum)
}

func TestPollMode_ParseAndString(t *testing.T) {
	for _, m := range []PollMode{PollModeEveryTick, PollModeOnDataAvailable} {
		got, err := PollModeParse(m.String())
		require.NoError(t, err)
		require.Equal(t, m, got)
	}
	_, err := PollModeParse("sometimes")
	require.ErrorIs(t, err, gxcommon.ErrUnknownEnum)
}

func TestNewTransport(t *testing.T) {
	s := DefaultSettings()
	tr, err := NewTransport(s)
	require.NoError(t, err)
	require.IsType(t, &serialTransport{}, tr)

	s.Type = TransportTypeTCP
	tr, err = NewTransport(s)
	require.NoError(t, err)
	require.IsType(t, &netTransport{}, tr)

	s.Type = TransportType(7)
	_, err = NewTransport(s)
	require.ErrorIs(t, err, gxcommon.ErrInvalidArgument)
}

func TestSettings_LocalizedValidation(t *testing.T) {
	g := NewGXStream(DefaultSettings())
	require.EqualError(t, g.Validate(), "No endpoint selected. Please select a serial port or a host.")
	g.Localize(language.German)
	require.EqualError(t, g.Validate(), "Kein Endpunkt ausgewählt. Bitte wählen Sie einen seriellen Port oder einen Host aus.")
}

func TestSettings_SetSettingsApplies(t *testing.T) {
	g := NewGXStream(DefaultSettings())
	require.NoError(t, g.SetSettings("<Endpoint>/dev/ttyUSB0</Endpoint><Bps>19200</Bps><NewLine> </NewLine>"))
	require.Equal(t, "/dev/ttyUSB0", g.Endpoint())
	require.Equal(t, gxcommon.BaudRate(19200), g.BaudRate())
	require.Equal(t, " ", g.NewLine())
}
