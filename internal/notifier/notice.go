package notifier

import (
	"encoding/json"
	"fmt"

	"go.uber.org/zap"
)

// Notice 发往显示端的瞬态提示
// display_seconds 到期后由显示端自行消除，引擎不管理消除
type Notice struct {
	Message        string `json:"message"`
	DisplaySeconds int    `json:"display_seconds"`
}

// NoticeNotifier 提示协作层（发布到 seniorcare/{senior}/notice）
// 实现 clock.NoticeDisplay
type NoticeNotifier struct {
	publisher      Publisher
	topic          string
	qos            byte
	displaySeconds int
	logger         *zap.Logger
}

// NewNoticeNotifier 创建提示协作层
func NewNoticeNotifier(publisher Publisher, topicPrefix, seniorID string, qos byte, displaySeconds int, logger *zap.Logger) *NoticeNotifier {
	return &NoticeNotifier{
		publisher:      publisher,
		topic:          topicPrefix + seniorID + "/notice",
		qos:            qos,
		displaySeconds: displaySeconds,
		logger:         logger,
	}
}

// Show 显示一条瞬态提示（即发即忘）
func (n *NoticeNotifier) Show(message string) {
	notice := Notice{
		Message:        message,
		DisplaySeconds: n.displaySeconds,
	}

	payload, err := json.Marshal(notice)
	if err != nil {
		n.logger.Error("Failed to marshal notice",
			zap.Error(err),
		)
		return
	}

	if err := n.publisher.Publish(n.topic, n.qos, false, payload); err != nil {
		n.logger.Error("Failed to publish notice",
			zap.String("topic", n.topic),
			zap.Error(err),
		)
	}
}

// ShowDue 显示一条到期提醒（clock.NoticeDisplay）
func (n *NoticeNotifier) ShowDue(name string) {
	n.Show(fmt.Sprintf("Time to take %s", name))
}
