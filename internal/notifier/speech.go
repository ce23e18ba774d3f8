package notifier

import (
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"

	"seniorcare-reminder/internal/clock"

	"go.uber.org/zap"
)

// Utterance 发往语音端的载荷
// 播放端始终只朗读序号最大的一条：新消息到达即打断当前朗读，
// 保证至多一个并发朗读
type Utterance struct {
	Sequence int64  `json:"sequence"`
	Text     string `json:"text"`
	Language string `json:"language"`
}

// SpeechNotifier 语音协作层（发布到 seniorcare/{senior}/speech）
// 实现 clock.Speaker 和 reconciler.ConfirmationSpeaker
type SpeechNotifier struct {
	publisher Publisher
	topic     string
	qos       byte
	logger    *zap.Logger
	sequence  atomic.Int64

	mu       sync.RWMutex
	language string
}

// NewSpeechNotifier 创建语音协作层
func NewSpeechNotifier(publisher Publisher, topicPrefix, seniorID string, qos byte, logger *zap.Logger) *SpeechNotifier {
	return &SpeechNotifier{
		publisher: publisher,
		topic:     topicPrefix + seniorID + "/speech",
		qos:       qos,
		logger:    logger,
		language:  "en",
	}
}

// SetLanguage 设置朗读语言（随老人档案刷新）
func (n *SpeechNotifier) SetLanguage(language string) {
	if language == "" {
		return
	}
	n.mu.Lock()
	n.language = language
	n.mu.Unlock()
}

// Speak 发布一条朗读请求（即发即忘；发布失败只记日志，不影响引擎）
func (n *SpeechNotifier) Speak(text, language string) {
	utterance := Utterance{
		Sequence: n.sequence.Add(1),
		Text:     text,
		Language: language,
	}

	payload, err := json.Marshal(utterance)
	if err != nil {
		n.logger.Error("Failed to marshal utterance",
			zap.Error(err),
		)
		return
	}

	if err := n.publisher.Publish(n.topic, n.qos, false, payload); err != nil {
		n.logger.Error("Failed to publish utterance",
			zap.String("topic", n.topic),
			zap.Error(err),
		)
		return
	}

	n.logger.Debug("Utterance published",
		zap.Int64("sequence", utterance.Sequence),
		zap.String("language", language),
	)
}

// AnnounceDue 播报一条到期提醒（clock.Speaker）
func (n *SpeechNotifier) AnnounceDue(a clock.Announcement) {
	n.mu.RLock()
	language := n.language
	n.mu.RUnlock()

	text := fmt.Sprintf("It is time for your %s pill, %s.", a.PillColor, a.Name)
	n.Speak(text, language)
}

// AnnounceTaken 播报确认成功（reconciler.ConfirmationSpeaker）
func (n *SpeechNotifier) AnnounceTaken(name string) {
	n.mu.RLock()
	language := n.language
	n.mu.RUnlock()

	text := fmt.Sprintf("Well done. %s is marked as taken.", name)
	n.Speak(text, language)
}

// AnnounceBatch 播报"读全部待服"的结果
// 空的待服集合说不同的短语，而不是沉默
func (n *SpeechNotifier) AnnounceBatch(batch clock.DueBatch) {
	n.mu.RLock()
	language := n.language
	n.mu.RUnlock()

	if batch.AllTaken {
		n.Speak("All medicines are taken. Well done.", language)
		return
	}

	text := fmt.Sprintf("You have %d medicines to take.", batch.Count)
	for _, item := range batch.Items {
		text += fmt.Sprintf(" The %s pill, %s.", item.PillColor, item.Name)
	}
	n.Speak(text, language)
}
