package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/deso-protocol/ternpow/encoding"
	"github.com/stretchr/testify/require"
)

func TestParseMessages(t *testing.T) {
	require := require.New(t)

	input := "# comment\nABC\n\n  9Z9  \n"
	jobs, err := ParseMessages("input", strings.NewReader(input))
	require.NoError(err)
	require.Len(jobs, 2)
	require.Equal("input:2", jobs[0].Source)
	require.Equal("input:4", jobs[1].Source)

	expected, err := encoding.TrytesToTrits("9Z9")
	require.NoError(err)
	require.Equal(expected, jobs[1].Trits)

	_, err = ParseMessages("bad", strings.NewReader("ABC\nab!\n"))
	require.Error(err)
	require.Contains(err.Error(), "bad:2")
}

func TestLoadJobs(t *testing.T) {
	require := require.New(t)

	inputFile := filepath.Join(t.TempDir(), "messages.txt")
	require.NoError(os.WriteFile(inputFile, []byte("AAA\nBBB\n"), 0644))

	jobs, err := LoadJobs(&Config{Trytes: "ZZZ", InputFile: inputFile})
	require.NoError(err)
	require.Len(jobs, 3)
	require.Equal("trytes", jobs[0].Source)
	require.Equal(inputFile+":1", jobs[1].Source)

	_, err = LoadJobs(&Config{})
	require.Error(err)

	_, err = LoadJobs(&Config{InputFile: filepath.Join(t.TempDir(), "missing.txt")})
	require.Error(err)

	_, err = LoadJobs(&Config{Trytes: "not trytes"})
	require.Error(err)
}
