package ports

type EventBus interface {
	Publish(topic string, payload []byte)
	Subscribe() (ch <-chan Event, cancel func())
}

type Event struct {
	Topic   string
	Payload []byte
}

const (
	TopicStatusResolved  = "status.resolved"
	TopicSettingsUpdated = "settings.updated"
	TopicScheduleUpdated = "schedule.updated"
)
