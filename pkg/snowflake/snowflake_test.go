package snowflake

import (
	"regexp"
	"strings"
	"sync"
	"testing"
)

// 1️⃣ 基础测试：能不能生成 ID
func TestGenID(t *testing.T) {
	id := GenID()
	if id <= 0 {
		t.Fatalf("expected id > 0, got %d", id)
	}
}

// 2️⃣ 订单号格式
func TestGenOrderSn_Format(t *testing.T) {
	sn := GenOrderSn("ORD")
	if !strings.HasPrefix(sn, "ORD") {
		t.Fatalf("missing prefix: %s", sn)
	}
	if !regexp.MustCompile(`^ORD\d{12}[0-9A-Z]+$`).MatchString(sn) {
		t.Fatalf("unexpected order sn format: %s", sn)
	}
}

// 3️⃣ 并发测试：多 goroutine 生成订单号不重复
func TestGenOrderSn_Concurrent(t *testing.T) {
	const (
		goroutines = 20
		perRoutine = 2000
		total      = goroutines * perRoutine
	)

	var (
		wg  sync.WaitGroup
		mu  sync.Mutex
		sns = make(map[string]struct{}, total)
	)

	wg.Add(goroutines)
	for g := 0; g < goroutines; g++ {
		go func() {
			defer wg.Done()
			for i := 0; i < perRoutine; i++ {
				sn := GenOrderSn("ORD")

				mu.Lock()
				if _, exists := sns[sn]; exists {
					mu.Unlock()
					t.Errorf("duplicate order sn: %s", sn)
					return
				}
				sns[sn] = struct{}{}
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
}

// 4️⃣ 顺序性测试
func TestGenID_Order(t *testing.T) {
	prev := GenID()
	for i := 0; i < 1000; i++ {
		curr := GenID()
		if curr <= prev {
			t.Fatalf("ids not increasing: prev=%d curr=%d", prev, curr)
		}
		prev = curr
	}
}
