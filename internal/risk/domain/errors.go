package domain

import "errors"

// 领域错误哨兵。调用方通过 errors.Is 判断错误种类。
var (
	// ErrInsufficientData 历史序列过短，无法稳定估计参数
	ErrInsufficientData = errors.New("insufficient historical data")
	// ErrDegenerateSeries 零方差序列（所有价格相同），波动率按 0 处理
	ErrDegenerateSeries = errors.New("degenerate price series: zero variance")
	// ErrInvalidParameter 非法模拟参数（非正的期限/路径数、负波动率等）
	ErrInvalidParameter = errors.New("invalid simulation parameter")
	// ErrEmptyTail CVaR 尾部子集为空
	ErrEmptyTail = errors.New("empty tail below var threshold")
)
