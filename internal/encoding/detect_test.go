package encoding_test

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"

	"github.com/MrJamesThe3rd/arbitra/internal/encoding"
)

func readAll(t *testing.T, input []byte) string {
	t.Helper()

	r, err := encoding.NewUTF8Reader(bytes.NewReader(input))
	require.NoError(t, err)

	got, err := io.ReadAll(r)
	require.NoError(t, err)

	return string(got)
}

func TestNewUTF8Reader(t *testing.T) {
	arabic := "التاريخ;المبلغ;ملاحظات\n2024-03-01;1000;دفعة نقدية\n"
	western := "Opération;Montant;Référence\nDépôt espèces à la banque;1.234,56;reçu numéro deux\n"

	utf16le, err := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder().String(arabic)
	require.NoError(t, err)

	latin1, err := charmap.Windows1252.NewEncoder().String(western)
	require.NoError(t, err)

	type testCase struct {
		name  string
		input []byte
		want  string
	}

	tests := []testCase{
		{name: "UTF8Passthrough", input: []byte(arabic), want: arabic},
		{name: "UTF8BOMStripped", input: append([]byte{0xEF, 0xBB, 0xBF}, arabic...), want: arabic},
		{name: "UTF16LE", input: []byte(utf16le), want: arabic},
		{name: "Windows1252", input: []byte(latin1), want: western},
		{name: "Empty", input: nil, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, readAll(t, tt.input))
		})
	}
}

func TestDetect(t *testing.T) {
	assert.Equal(t, "UTF-8", encoding.Detect([]byte("date;fiat_amount\n")))
	assert.Equal(t, "UTF-16BE", encoding.Detect([]byte{0xFE, 0xFF, 0x00, 'a'}))
	assert.Equal(t, "UTF-16LE", encoding.Detect([]byte{0xFF, 0xFE, 'a', 0x00}))
}

func TestNewUTF8Reader_LargeInput(t *testing.T) {
	line := "2024-03-01;1000;7.5;1100;7.0\n"
	input := bytes.Repeat([]byte(line), 500)

	assert.Equal(t, string(input), readAll(t, input))
}
