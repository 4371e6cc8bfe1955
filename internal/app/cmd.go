package app

import (
	"fmt"
	"sort"
	"strings"
)

// Command はアプリケーションの起動モードを表す。
type Command string

const (
	// CommandServe はAPIサーバーモードで起動することを示す。
	CommandServe Command = "serve"
	// CommandWorker は期限切れ予約の定期削除ワーカーとして起動することを示す。
	CommandWorker Command = "worker"
	// CommandMigrate はデータベースマイグレーションを実行することを示す。
	CommandMigrate Command = "migrate"
	// CommandHealthcheck はヘルスチェックを実行することを示す。
	// distroless環境でのDockerヘルスチェック用。
	CommandHealthcheck Command = "healthcheck"
)

// commandDescriptions はサブコマンドと説明の対応。
var commandDescriptions = map[Command]string{
	CommandServe:       "start the HTTP API on port 5056 (default)",
	CommandWorker:      "periodically delete appointments past the retention period",
	CommandMigrate:     "apply pending database migrations",
	CommandHealthcheck: "check GET /health on the local API",
}

// ParseCommand はコマンドライン引数からサブコマンドを解析する。
// 引数が空またはサポート外のコマンドの場合はCommandServeを返す。
func ParseCommand(args []string) Command {
	if len(args) == 0 {
		return CommandServe
	}

	cmd := Command(args[0])
	if _, ok := commandDescriptions[cmd]; !ok {
		return CommandServe
	}
	return cmd
}

// Usage はサブコマンドの一覧を返す。
func Usage() string {
	names := make([]string, 0, len(commandDescriptions))
	for cmd := range commandDescriptions {
		names = append(names, string(cmd))
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString("usage: beautyparlour [command]\n\ncommands:\n")
	for _, name := range names {
		fmt.Fprintf(&b, "  %-12s %s\n", name, commandDescriptions[Command(name)])
	}
	return b.String()
}
