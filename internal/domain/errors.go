package domain

import "errors"

var (
	// ErrAuthentication 凭证文件缺失或无效。
	ErrAuthentication = errors.New("gcp 凭证加载失败")
	// ErrTransport 分页拉取过程中的网络或 API 错误。
	ErrTransport = errors.New("gcp 接口调用失败")
	// ErrGraphWrite 写入 Neo4j 失败，之前已执行的 MERGE 不回滚。
	ErrGraphWrite = errors.New("写入图数据库失败")
	// ErrMissingKey 记录缺少唯一键，跳过写入。
	ErrMissingKey = errors.New("记录缺少唯一键")
)
