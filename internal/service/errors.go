package service

import "errors"

// 服务层错误分类（每类对应一种对护理人的提示口径）
var (
	// ErrFetchFailed 刷新失败，本地状态保持刷新前的快照
	ErrFetchFailed = errors.New("failed to fetch reminder data")

	// ErrSaveFailed 药物保存失败，草稿保留以便重试
	ErrSaveFailed = errors.New("failed to save medication")

	// ErrUpdateFailed 老人档案更新失败，调用方保留编辑内容
	ErrUpdateFailed = errors.New("failed to update senior profile")

	// ErrNameRequired 药名为空，不触发任何 I/O
	ErrNameRequired = errors.New("medication name is required")
)
