package quota

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"yt-insight/config"
)

// GenerationQuotaLimiter 는 리포트 생성용 LLM 호출에 대한 분당/일일 한도를 관리한다.
// API 인스턴스 하나를 전제로 인메모리로 동작하며, 재시작되면 일일 카운터가 초기화된다.
type GenerationQuotaLimiter struct {
	mu sync.Mutex

	dailyLimit int
	usedToday  int
	dayKey     string

	pacer *rate.Limiter
	now   func() time.Time
}

// NewGenerationQuotaLimiterFromConfig 는 config.yaml 의 generation_quota 설정으로 limiter 를 만든다.
// 설정 값이 0 이하인 경우에는 해당 방향의 제한을 두지 않는다.
func NewGenerationQuotaLimiterFromConfig(cfg config.AppConfig) *GenerationQuotaLimiter {
	return NewGenerationQuotaLimiter(cfg.GenerationQuota.RequestsPerMinute, cfg.GenerationQuota.RequestsPerDay)
}

func NewGenerationQuotaLimiter(requestsPerMinute, requestsPerDay int) *GenerationQuotaLimiter {
	if requestsPerDay < 0 {
		requestsPerDay = 0
	}

	pacer := rate.NewLimiter(rate.Inf, 1)
	if requestsPerMinute > 0 {
		pacer = rate.NewLimiter(rate.Every(time.Minute/time.Duration(requestsPerMinute)), 1)
	}

	return &GenerationQuotaLimiter{
		dailyLimit: requestsPerDay,
		pacer:      pacer,
		now:        time.Now,
	}
}

// WaitAndReserve 는 생성 호출 전에 분당/일일 한도를 적용한다.
// - 일일 한도를 초과한 경우: (false, nil) 을 반환하고 호출자는 LLM 호출을 하지 않아야 한다.
// - 컨텍스트 취소 시: (false, error) 를 반환한다. 이때 일일 카운터는 되돌린다.
func (l *GenerationQuotaLimiter) WaitAndReserve(ctx context.Context) (bool, error) {
	l.mu.Lock()
	todayKey := l.now().UTC().Format("2006-01-02")
	if l.dayKey != todayKey {
		l.dayKey = todayKey
		l.usedToday = 0
	}
	if l.dailyLimit > 0 && l.usedToday >= l.dailyLimit {
		l.mu.Unlock()
		return false, nil
	}
	l.usedToday++
	l.mu.Unlock()

	if err := l.pacer.Wait(ctx); err != nil {
		l.mu.Lock()
		if l.dayKey == todayKey && l.usedToday > 0 {
			l.usedToday--
		}
		l.mu.Unlock()
		return false, err
	}
	return true, nil
}

// Remaining 은 오늘 남은 호출 수를 돌려준다. 일일 한도가 없으면 -1 이다.
func (l *GenerationQuotaLimiter) Remaining() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.dailyLimit <= 0 {
		return -1
	}
	if l.dayKey != l.now().UTC().Format("2006-01-02") {
		return l.dailyLimit
	}
	return l.dailyLimit - l.usedToday
}
