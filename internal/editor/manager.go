package editor

import (
	"sync"

	"github.com/rs/zerolog"
)

// Managerは管理者セッションごとに1つのEditorを持つ。
// 想定は1管理者だが、念のためユーザーIDで分ける。
type Manager struct {
	mu      sync.Mutex
	editors map[string]*Editor
	upload  UploadPipeline
	writer  ProductWriter
	logger  zerolog.Logger
}

// DI
func NewManager(upload UploadPipeline, writer ProductWriter, logger zerolog.Logger) *Manager {
	return &Manager{
		editors: make(map[string]*Editor),
		upload:  upload,
		writer:  writer,
		logger:  logger,
	}
}

func (m *Manager) For(userID string) *Editor {
	m.mu.Lock()
	defer m.mu.Unlock()

	if ed, ok := m.editors[userID]; ok {
		return ed
	}
	ed := New(m.upload, m.writer, m.logger)
	m.editors[userID] = ed
	return ed
}

// パネルを閉じたときの後始末。draftは破棄される。
func (m *Manager) Close(userID string) {
	m.mu.Lock()
	ed, ok := m.editors[userID]
	if ok {
		delete(m.editors, userID)
	}
	m.mu.Unlock()

	if ok {
		ed.Cancel()
	}
}
