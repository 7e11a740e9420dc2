package config

import "time"

type Jwt struct {
	Secret string `json:"secret" yaml:"secret"`
	// ExpiresIn access token 有效期（秒）
	ExpiresIn int64 `json:"expires_in" yaml:"expires_in"`
}

func (j *Jwt) Expire() time.Duration {
	if j.ExpiresIn <= 0 {
		return 2 * time.Hour
	}
	return time.Duration(j.ExpiresIn) * time.Second
}
