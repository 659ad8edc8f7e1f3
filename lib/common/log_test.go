package common

import (
	"bytes"
	"encoding/json"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	logging "github.com/inconshreveable/log15"
	"github.com/stretchr/testify/require"

	"boscoin.io/governance/lib/errors"
)

func TestJsonFormatEx(t *testing.T) {
	var buf bytes.Buffer
	l := logging.New("module", "test")
	l.SetHandler(logging.StreamHandler(&buf, JsonFormatEx(false, true)))

	h := MakeHash([]byte("showme"))
	l.Info("showme", "hash", h, "error", errors.NotFound, "height", Height(3))

	var props map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &props))
	require.Equal(t, "showme", props["msg"])
	require.Equal(t, h.String(), props["hash"])
	require.Equal(t, "3", props["height"])
	require.Equal(t, float64(errors.NotFound.Code), props["error"].(map[string]interface{})["code"])
}

func TestNewLogHandlerFile(t *testing.T) {
	dir, err := ioutil.TempDir("", "governance-log")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	output := filepath.Join(dir, "node.log")
	handler, err := NewLogHandler(output)
	require.NoError(t, err)

	l := logging.New("module", "test")
	l.SetHandler(handler)
	l.Info("written", "height", Height(7))

	b, err := ioutil.ReadFile(output)
	require.NoError(t, err)

	var props map[string]interface{}
	require.NoError(t, json.Unmarshal(b, &props))
	require.Equal(t, "written", props["msg"])
	require.Equal(t, "7", props["height"])
}
