package mysql

import (
	"fmt"
	"os"
	"strings"
)

// connArgs builds the connection arguments shared by mysqldump, mysql and
// mysqlbinlog. The password is never put on the command line; it travels in
// the environment to stay out of the process list.
func connArgs(cfg Config) []string {
	return []string{
		fmt.Sprintf("--host=%s", cfg.Host),
		fmt.Sprintf("--port=%d", cfg.Port),
		fmt.Sprintf("--user=%s", cfg.User),
	}
}

func toolEnv(cfg Config) []string {
	env := os.Environ()
	if cfg.Password != "" {
		env = append(env, "MYSQL_PWD="+cfg.Password)
	}
	return env
}

// stderrTail keeps error output readable: the last few lines are where the
// client tools put the actual failure reason.
func stderrTail(buf string) string {
	buf = strings.TrimSpace(buf)
	lines := strings.Split(buf, "\n")
	if len(lines) > 5 {
		lines = lines[len(lines)-5:]
	}
	return strings.Join(lines, "\n")
}
