package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// LoadDotenvIfPresent 는 존재하는 dotenv 파일만 읽어 환경 변수로 적재한다.
// paths 가 없으면 ENV_FILE(설정된 경우), .env, .env.local 순서로 찾는다.
// 먼저 적재된 값과 이미 설정된 환경 변수는 덮어쓰지 않는다.
func LoadDotenvIfPresent(paths ...string) error {
	if len(paths) == 0 {
		paths = defaultDotenvPaths()
	}

	var found []string
	for _, path := range paths {
		_, err := os.Stat(path)
		switch {
		case err == nil:
			found = append(found, path)
		case errors.Is(err, os.ErrNotExist):
		default:
			return fmt.Errorf("stat dotenv file failed path=%s: %w", path, err)
		}
	}
	if len(found) == 0 {
		return nil
	}

	if err := godotenv.Load(found...); err != nil {
		return fmt.Errorf("load dotenv files failed paths=%s: %w", strings.Join(found, ","), err)
	}
	return nil
}

func defaultDotenvPaths() []string {
	paths := []string{".env", ".env.local"}
	if explicit, ok := lookupTrimmed("ENV_FILE"); ok {
		paths = append([]string{explicit}, paths...)
	}
	return paths
}
