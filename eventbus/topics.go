package eventbus

// 전역 토픽 선언: 기능별 기본 토픽 이름을 관리합니다.

var (
	TopicAnalysisEvents = NewTopic("yt-insight.analysis.events")
)

var AllTopics = []Topic{
	TopicAnalysisEvents,
}
