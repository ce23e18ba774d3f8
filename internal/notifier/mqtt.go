// Package notifier 通过 MQTT 把语音与提示投递给老人端平板。
// 引擎只发布结构化载荷，朗读与渲染由设备端完成。
package notifier

import (
	"fmt"

	"seniorcare-reminder/internal/config"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// Publisher 消息发布接口（便于测试替换 MQTT 客户端）
type Publisher interface {
	Publish(topic string, qos byte, retained bool, payload []byte) error
}

// MQTTClient MQTT客户端封装
type MQTTClient struct {
	client mqtt.Client
	config *config.MQTTConfig
}

// NewMQTTClient 创建MQTT客户端
func NewMQTTClient(cfg *config.MQTTConfig) (*MQTTClient, error) {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(cfg.Broker)
	opts.SetClientID(cfg.ClientID)

	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
	}
	if cfg.Password != "" {
		opts.SetPassword(cfg.Password)
	}

	opts.SetAutoReconnect(true)
	opts.SetCleanSession(true)

	client := mqtt.NewClient(opts)

	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("failed to connect to MQTT broker: %w", token.Error())
	}

	return &MQTTClient{
		client: client,
		config: cfg,
	}, nil
}

// Publish 发布消息
func (c *MQTTClient) Publish(topic string, qos byte, retained bool, payload []byte) error {
	token := c.client.Publish(topic, qos, retained, payload)
	token.Wait()

	if token.Error() != nil {
		return fmt.Errorf("failed to publish to topic %s: %w", topic, token.Error())
	}

	return nil
}

// Close 断开连接
func (c *MQTTClient) Close() {
	c.client.Disconnect(250)
}
