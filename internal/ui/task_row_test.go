package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ytget/pixhub/internal/model"
)

func TestTaskDetail(t *testing.T) {
	tests := []struct {
		name     string
		task     model.DownloadTask
		expected string
	}{
		{
			name:     "pending",
			task:     model.DownloadTask{Status: model.TaskStatusPending},
			expected: DashPlaceholder,
		},
		{
			name:     "downloading with size and speed",
			task:     model.DownloadTask{Status: model.TaskStatusDownloading, BytesDone: 1000, BytesTotal: 2000, Speed: "1.0 kB/s"},
			expected: "1.0 kB / 2.0 kB" + MiddleDotSeparator + "1.0 kB/s",
		},
		{
			name:     "downloading unknown size",
			task:     model.DownloadTask{Status: model.TaskStatusDownloading, BytesDone: 500, BytesTotal: -1},
			expected: "500 B",
		},
		{
			name:     "error",
			task:     model.DownloadTask{Status: model.TaskStatusError, LastError: "GET x: 404 Not Found"},
			expected: "GET x: 404 Not Found",
		},
		{
			name:     "stopped",
			task:     model.DownloadTask{Status: model.TaskStatusStopped, OutputPath: "/tmp/image-Cat.jpg"},
			expected: "/tmp/image-Cat.jpg",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, taskDetail(tt.task))
		})
	}
}

func TestLocalization_Fallbacks(t *testing.T) {
	l := NewLocalization()
	assert.Equal(t, "Save", l.GetText(KeySave))

	l.SetLanguage("ru")
	assert.Equal(t, "ru", l.GetCurrentLanguage())
	assert.Equal(t, "Сохранить", l.GetText(KeySave))
	assert.Equal(t, "no_such_key", l.GetText("no_such_key"))

	l.SetLanguage("system")
	assert.Equal(t, "en", l.GetCurrentLanguage())

	l.SetLanguage("xx")
	assert.Equal(t, "en", l.GetCurrentLanguage(), "unknown languages are ignored")
}

func TestLocalization_EveryKeyTranslated(t *testing.T) {
	l := NewLocalization()
	for key := range l.texts["en"] {
		_, ok := l.texts["ru"][key]
		assert.True(t, ok, key)
	}
}

func TestSameItems(t *testing.T) {
	a := []model.MediaItem{{ID: model.IntID(1)}, {ID: model.IntID(2)}}
	b := []model.MediaItem{{ID: model.IntID(1), Title: "new title"}, {ID: model.IntID(2)}}
	c := []model.MediaItem{{ID: model.IntID(1)}, {ID: model.StringID("2")}}

	assert.True(t, sameItems(a, b))
	assert.False(t, sameItems(a, c))
	assert.False(t, sameItems(a, a[:1]))
	assert.True(t, sameItems(nil, []model.MediaItem{}))
}
