package cmd

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"peasydeal-link-converter/internal/convert"
)

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	// no credentials and no redis, so nothing leaves the process
	t.Setenv("SHOPEE_AFFILIATE_APP_ID", "")
	t.Setenv("SHOPEE_AFFILIATE_SECRET", "")
	t.Setenv("REDIS_HOST", "")
	t.Setenv("LOG_LEVEL", "error")

	var out bytes.Buffer
	root := newRootCmd()
	root.SetIn(strings.NewReader(stdin))
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs(args)

	err := root.Execute()
	return out.String(), err
}

func TestRoot_TextFlag(t *testing.T) {
	out, err := execute(t, "", "--text", "see https://example.com/page?utm_source=x")
	require.NoError(t, err)
	require.Equal(t, "see https://example.com/page?utm_source=x\n", out)
}

func TestRoot_Stdin(t *testing.T) {
	out, err := execute(t, "no links here\n")
	require.NoError(t, err)
	require.Equal(t, "no links here\n", out)
}

func TestRoot_JSON(t *testing.T) {
	out, err := execute(t, "", "--json", "--no-affiliate", "--text", "a https://example.com/x b https://example.com/x")
	require.NoError(t, err)

	var res convert.Result
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	require.Equal(t, "a https://example.com/x b https://example.com/x", res.Text)
	require.Len(t, res.Conversions, 1)
	require.Equal(t, "https://example.com/x", res.Conversions[0].Original)
}

func TestRoot_EmptyInputIsUsageError(t *testing.T) {
	_, err := execute(t, "   ")
	require.ErrorIs(t, err, errUsage)
}

func TestRoot_RejectsArgs(t *testing.T) {
	_, err := execute(t, "", "stray")
	require.Error(t, err)
}
