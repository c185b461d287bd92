package types

import "fmt"

type TableName string

func (s TableName) Name() string {
	return fmt.Sprintf("%s%s", TABLE_PREFIX, s)
}

const TABLE_PREFIX = "leli_"

const (
	TABLE_CHAT_SESSION = TableName("chat_session")
	TABLE_CHAT_MESSAGE = TableName("chat_message")
	TABLE_ACCOUNT      = TableName("account")
	TABLE_ACCESS_TOKEN = TableName("access_token")
)
