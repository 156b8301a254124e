package finding

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeFixture(t *testing.T) *Message {
	t.Helper()
	msg, err := Decode(Encode([]byte(notification)))
	require.NoError(t, err)
	return msg
}

func TestText_NestedAndScalars(t *testing.T) {
	msg := decodeFixture(t)

	got, err := msg.Finding.Text("sourceProperties", "gcloud_remediation")
	require.NoError(t, err)
	assert.Equal(t, "gsutil iam ch -d allUsers gs://demo-bucket", got)

	got, err = msg.Finding.Text("sourceProperties", "ReactivationCount")
	require.NoError(t, err)
	assert.Equal(t, "0", got)

	got, err = msg.Resource.Text("gcpMetadata")
	require.NoError(t, err)
	assert.Equal(t, `{"projectDisplayName":"demo-project"}`, got)
}

func TestText_NullIsEmpty(t *testing.T) {
	f := Finding{"state": []byte("null")}
	got, err := f.Text("state")
	require.NoError(t, err)
	assert.Equal(t, "", got)
}

func TestText_Missing(t *testing.T) {
	f := Finding{"sourceProperties": []byte(`"flat"`)}

	tests := []struct {
		path []string
		want string
	}{
		{[]string{"severity"}, "finding.severity"},
		{[]string{"sourceProperties", "Explanation"}, "finding.sourceProperties.Explanation"},
	}
	for _, tc := range tests {
		_, err := f.Text(tc.path...)
		var mf *MissingFieldError
		require.True(t, errors.As(err, &mf))
		assert.Equal(t, tc.want, mf.Path)
	}
}

func TestText_ArrayIsNotAnObjectStep(t *testing.T) {
	f := Finding{"sourceProperties": []byte(`[{"Explanation": "x"}]`)}
	_, err := f.Text("sourceProperties", "0")
	var mf *MissingFieldError
	require.True(t, errors.As(err, &mf))
	assert.Equal(t, "finding.sourceProperties.0", mf.Path)
}

func TestText_CompactsObjects(t *testing.T) {
	f := Finding{"sourceProperties": []byte(`{ "a" : [1, 2],  "b": "x y" }`)}
	got, err := f.Text("sourceProperties")
	require.NoError(t, err)
	assert.Equal(t, `{"a":[1,2],"b":"x y"}`, got)
}

func TestResource_Missing(t *testing.T) {
	_, err := Resource{}.Text("gcpMetadata", "projectDisplayName")
	var mf *MissingFieldError
	require.True(t, errors.As(err, &mf))
	assert.Equal(t, "resource.gcpMetadata.projectDisplayName", mf.Path)
}
