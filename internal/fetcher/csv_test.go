package fetcher

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadCSV(t *testing.T) {
	input := "id,x,y\n01,1.5,10\n02,2.5,20\n"

	header, rows, err := ReadCSV(context.Background(), strings.NewReader(input), CSVOptions{})
	require.NoError(t, err)

	assert.Equal(t, []string{"id", "x", "y"}, header)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"01", "1.5", "10"}, rows[0])
	assert.Equal(t, []string{"02", "2.5", "20"}, rows[1])
}

func TestReadCSV_Delimiter(t *testing.T) {
	input := "id;x\n01;1.5\n"

	header, rows, err := ReadCSV(context.Background(), strings.NewReader(input), CSVOptions{Delimiter: ';'})
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "x"}, header)
	assert.Equal(t, []string{"01", "1.5"}, rows[0])
}

func TestReadCSV_TrimSpace(t *testing.T) {
	input := "id, x\n 01 , 1.5 \n"

	_, rows, err := ReadCSV(context.Background(), strings.NewReader(input), CSVOptions{TrimSpace: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"01", "1.5"}, rows[0])
}

func TestReadCSV_Comment(t *testing.T) {
	input := "# generated file\nid,x\n01,1.5\n"

	header, rows, err := ReadCSV(context.Background(), strings.NewReader(input), CSVOptions{Comment: '#'})
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "x"}, header)
	assert.Len(t, rows, 1)
}

func TestReadCSV_Charset(t *testing.T) {
	// "Orléans" in ISO 8859-1: é is a single 0xE9 byte.
	input := "name\nOrl\xe9ans\n"

	_, rows, err := ReadCSV(context.Background(), strings.NewReader(input), CSVOptions{Charset: "iso-8859-1"})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Orléans", rows[0][0])
}

func TestReadCSV_UnsupportedCharset(t *testing.T) {
	_, _, err := ReadCSV(context.Background(), strings.NewReader("a\n1\n"), CSVOptions{Charset: "not-a-charset"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not-a-charset")
}

func TestReadCSV_Empty(t *testing.T) {
	_, _, err := ReadCSV(context.Background(), strings.NewReader(""), CSVOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty input")
}

func TestReadCSV_VariableFieldCounts(t *testing.T) {
	// Field-count validation belongs to frame construction, not parsing.
	input := "a,b\n1\n2,3,4\n"

	header, rows, err := ReadCSV(context.Background(), strings.NewReader(input), CSVOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, header)
	assert.Equal(t, []string{"1"}, rows[0])
	assert.Equal(t, []string{"2", "3", "4"}, rows[1])
}

func TestReadCSV_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := ReadCSV(ctx, strings.NewReader("a\n1\n"), CSVOptions{})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}
