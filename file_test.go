package polyexpr

import (
	"errors"
	"strings"
	"testing"

	"github.com/hashicorp/go-multierror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProcessFile(t *testing.T) {
	t.Run("null file passes through", func(t *testing.T) {
		f := &File{Path: "empty.html"}
		res, err := ProcessFile(f, Options{})
		require.NoError(t, err)
		assert.Nil(t, res)
		assert.Nil(t, f.Contents)
	})

	t.Run("stream is rejected", func(t *testing.T) {
		f := &File{Path: "stream.html", Reader: strings.NewReader(sumModule)}
		_, err := ProcessFile(f, Options{})
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrStreamingUnsupported))

		var fileErr *FileError
		require.True(t, errors.As(err, &fileErr))
		assert.Equal(t, "stream.html", fileErr.Path)
		assert.Equal(t, "stream.html: streaming not supported", err.Error())
	})

	t.Run("contents are rewritten", func(t *testing.T) {
		f := &File{Path: "x-sum.html", Contents: []byte(sumModule)}
		res, err := ProcessFile(f, Options{})
		require.NoError(t, err)
		assert.Equal(t, res.HTML, string(f.Contents))
		assert.Contains(t, string(f.Contents), `[[__c_0(a,b)]]`)
	})

	t.Run("empty contents are transformed", func(t *testing.T) {
		f := &File{Path: "blank.html", Contents: []byte{}}
		res, err := ProcessFile(f, Options{})
		require.NoError(t, err)
		require.NotNil(t, res)
		assert.Empty(t, f.Contents)
	})
}

func TestProcessFiles(t *testing.T) {
	good := &File{Path: "good.html", Contents: []byte(sumModule)}
	missing := &File{Path: "missing.html", Contents: []byte(`<dom-module id="x-m"><template>[[a + b]]</template></dom-module>`)}
	stream := &File{Path: "stream.html", Reader: strings.NewReader("")}
	null := &File{Path: "null.html"}

	results, err := ProcessFiles([]*File{missing, good, stream, null}, Options{})
	require.Error(t, err)

	var merr *multierror.Error
	require.True(t, errors.As(err, &merr))
	require.Len(t, merr.Errors, 2)
	assert.True(t, errors.Is(merr.Errors[0], ErrMissingHostScript))
	assert.True(t, errors.Is(merr.Errors[1], ErrStreamingUnsupported))

	// The failure before it did not stop the good file.
	require.Len(t, results, 4)
	assert.Nil(t, results[0])
	require.NotNil(t, results[1])
	assert.Contains(t, string(good.Contents), `[[__c_0(a,b)]]`)
	assert.Nil(t, results[2])
	assert.Nil(t, results[3])

	// The failed file keeps its original contents.
	assert.Contains(t, string(missing.Contents), `[[a + b]]`)
}

func TestProcessFiles_AllGood(t *testing.T) {
	results, err := ProcessFiles([]*File{{Path: "a.html", Contents: []byte(sumModule)}}, Options{})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.True(t, results[0].Injected)
}
