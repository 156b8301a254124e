package finding

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode_RoundTrip(t *testing.T) {
	msg, err := Decode(Encode([]byte(notification)))
	require.NoError(t, err)

	var want, got map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(notification), &want))
	require.NoError(t, json.Unmarshal(msg.Raw, &got))
	assert.Equal(t, want, got)

	assert.Equal(t, "organizations/1234/notificationConfigs/teams", msg.NotificationConfigName)
	state, err := msg.Finding.Text("state")
	require.NoError(t, err)
	assert.Equal(t, "ACTIVE", state)
	project, err := msg.Resource.Text("gcpMetadata", "projectDisplayName")
	require.NoError(t, err)
	assert.Equal(t, "demo-project", project)
}

func TestDecode_URLSafeFallback(t *testing.T) {
	ev := Event{Data: base64.RawURLEncoding.EncodeToString([]byte(`{"finding":{},"resource":{}}`))}
	_, err := Decode(ev)
	assert.NoError(t, err)
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name  string
		ev    Event
		stage string
		path  string
	}{
		{name: "empty data", ev: Event{}, stage: "base64"},
		{name: "bad base64", ev: Event{Data: "%%%not-base64%%%"}, stage: "base64"},
		{name: "invalid utf8", ev: Encode([]byte{0xff, 0xfe, 0xfd}), stage: "utf8"},
		{name: "not json", ev: Encode([]byte("hello")), stage: "json"},
		{name: "json array", ev: Encode([]byte(`[1,2]`)), stage: "json"},
		{name: "json null", ev: Encode([]byte(`null`)), stage: "json"},
		{name: "finding not object", ev: Encode([]byte(`{"finding":"x","resource":{}}`)), stage: "json"},
		{name: "no finding", ev: Encode([]byte(`{"resource":{}}`)), path: "finding"},
		{name: "null finding", ev: Encode([]byte(`{"finding":null,"resource":{}}`)), path: "finding"},
		{name: "no resource", ev: Encode([]byte(`{"finding":{}}`)), path: "resource"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			msg, err := Decode(tc.ev)
			require.Error(t, err)
			assert.Nil(t, msg)

			if tc.stage != "" {
				var de *DecodeError
				require.True(t, errors.As(err, &de), "want *DecodeError, got %T", err)
				assert.Equal(t, tc.stage, de.Stage)
			}
			if tc.path != "" {
				var mf *MissingFieldError
				require.True(t, errors.As(err, &mf), "want *MissingFieldError, got %T", err)
				assert.Equal(t, tc.path, mf.Path)
			}
		})
	}
}
