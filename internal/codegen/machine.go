// Package codegen 以一组按结构划分的状态机拼装 JavaScript 源码
//
// 每个发射器（Emitter）维护一个游标状态，调用方按固定顺序发出
// "设置" 操作（名称、参数/元素、代码块……）。只有与当前状态匹配的
// 操作才生效，其余操作静默忽略。Generate 会补齐缺失的部分，
// 因此无论实际执行了哪些步骤，输出总是结构完整的。
package codegen

// ============================================================================
// 游标状态机
// ============================================================================

// State 发射器游标状态
type State int

const (
	StateStart  State = iota // 初始状态
	StateName                // 已写入名称 / 调用目标
	StateParams              // 已写入至少一个参数
	StateCond                // 已写入条件
	StateBody                // 已写入主体代码块（条件语句的 then 分支）
	StateItems               // 已写入至少一个元素
	StateDone                // 已完成，之后的操作全部忽略
)

var stateNames = [...]string{
	StateStart:  "Start",
	StateName:   "Name",
	StateParams: "Params",
	StateCond:   "Cond",
	StateBody:   "Body",
	StateItems:  "Items",
	StateDone:   "Done",
}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "State(?)"
}

// Op 发射器操作
type Op int

const (
	OpName  Op = iota // 设置名称 / 调用目标
	OpParam           // 追加参数
	OpCond            // 设置条件
	OpBlock           // 设置代码块
	OpElse            // 设置 else 分支
	OpItem            // 追加元素 / 实参 / 键值对
	OpClose           // 收尾
)

type edge struct {
	from State
	op   Op
}

// Table 状态转移表：(当前状态, 操作) -> 下一状态
//
// 表中没有的组合即为非法转移，游标保持不动。
type Table map[edge]State

// Cursor 由转移表驱动的游标
type Cursor struct {
	state State
	table Table
}

func newCursor(table Table) Cursor {
	return Cursor{state: StateStart, table: table}
}

// State 返回当前状态
func (c *Cursor) State() State {
	return c.state
}

// Step 尝试执行操作
//
// 返回:
//   - from: 执行前的状态
//   - ok: 转移合法并已执行时为 true
func (c *Cursor) Step(op Op) (from State, ok bool) {
	next, ok := c.table[edge{c.state, op}]
	if !ok {
		return c.state, false
	}
	from = c.state
	c.state = next
	return from, true
}

// Emitter 所有发射器的公共接口
type Emitter interface {
	// Generate 返回目标代码，必要时补齐缺失的部分
	Generate() string
}
