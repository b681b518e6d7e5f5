package codegen

import "strings"

// undefinedExpr 缺失的表达式用 undefined 补齐
const undefinedExpr = "undefined"

// ============================================================================
// FunctionEmitter - function name(a, b) { ... }
// ============================================================================

var functionTable = Table{
	{StateStart, OpName}:   StateName,
	{StateStart, OpParam}:  StateParams,
	{StateName, OpParam}:   StateParams,
	{StateParams, OpParam}: StateParams,
	{StateStart, OpBlock}:  StateDone,
	{StateName, OpBlock}:   StateDone,
	{StateParams, OpBlock}: StateDone,
}

// FunctionEmitter 函数发射器
//
// 合法顺序：SetName?（可选）→ SetParam*（零个或多个）→ SetBlock。
type FunctionEmitter struct {
	cursor Cursor
	sb     strings.Builder
}

// NewFunctionEmitter 创建函数发射器
func NewFunctionEmitter() *FunctionEmitter {
	e := &FunctionEmitter{cursor: newCursor(functionTable)}
	e.sb.WriteString("function")
	return e
}

// SetName 设置函数名
func (e *FunctionEmitter) SetName(name string) {
	if _, ok := e.cursor.Step(OpName); ok {
		e.sb.WriteByte(' ')
		e.sb.WriteString(name)
	}
}

// SetParam 追加一个参数
func (e *FunctionEmitter) SetParam(param string) {
	from, ok := e.cursor.Step(OpParam)
	if !ok {
		return
	}
	if from == StateParams {
		e.sb.WriteString(", ")
	} else {
		e.sb.WriteByte('(')
	}
	e.sb.WriteString(param)
}

// SetBlock 写入函数体（已缩进、每行以换行结尾）
func (e *FunctionEmitter) SetBlock(block string) {
	from, ok := e.cursor.Step(OpBlock)
	if !ok {
		return
	}
	if from != StateParams {
		// 从未设置参数
		e.sb.WriteByte('(')
	}
	e.sb.WriteString(") {\n")
	e.sb.WriteString(block)
	e.sb.WriteByte('}')
}

// Generate 返回函数定义
func (e *FunctionEmitter) Generate() string {
	if e.cursor.State() != StateDone {
		e.SetBlock("")
	}
	return e.sb.String()
}

// ============================================================================
// IfEmitter - if (cond) { ... } else { ... }
// ============================================================================

var ifTable = Table{
	{StateStart, OpCond}: StateCond,
	{StateCond, OpBlock}: StateBody,
	{StateBody, OpElse}:  StateDone,
	{StateBody, OpClose}: StateDone,
}

// IfEmitter 条件语句发射器
//
// 合法顺序：SetCond → SetBlock → SetElse?（可选）。
type IfEmitter struct {
	cursor Cursor
	sb     strings.Builder
}

// NewIfEmitter 创建条件语句发射器
func NewIfEmitter() *IfEmitter {
	e := &IfEmitter{cursor: newCursor(ifTable)}
	e.sb.WriteString("if (")
	return e
}

// SetCond 设置条件表达式
func (e *IfEmitter) SetCond(cond string) {
	if _, ok := e.cursor.Step(OpCond); ok {
		e.sb.WriteString(cond)
		e.sb.WriteString(") {\n")
	}
}

// SetBlock 写入 then 分支
func (e *IfEmitter) SetBlock(block string) {
	if _, ok := e.cursor.Step(OpBlock); ok {
		e.sb.WriteString(block)
		e.sb.WriteByte('}')
	}
}

// SetElse 写入 else 分支
func (e *IfEmitter) SetElse(block string) {
	if _, ok := e.cursor.Step(OpElse); ok {
		e.sb.WriteString(" else {\n")
		e.sb.WriteString(block)
		e.sb.WriteByte('}')
	}
}

// Generate 返回条件语句
func (e *IfEmitter) Generate() string {
	if e.cursor.State() == StateStart {
		e.SetCond(undefinedExpr)
	}
	if e.cursor.State() == StateCond {
		e.SetBlock("")
	}
	e.cursor.Step(OpClose)
	return e.sb.String()
}

// ============================================================================
// WhileEmitter - while (cond) { ... }
// ============================================================================

var whileTable = Table{
	{StateStart, OpCond}: StateCond,
	{StateCond, OpBlock}: StateDone,
}

// WhileEmitter 循环发射器
//
// 合法顺序：SetCond → SetBlock。
type WhileEmitter struct {
	cursor Cursor
	sb     strings.Builder
}

// NewWhileEmitter 创建循环发射器
func NewWhileEmitter() *WhileEmitter {
	e := &WhileEmitter{cursor: newCursor(whileTable)}
	e.sb.WriteString("while (")
	return e
}

// SetCond 设置循环条件
func (e *WhileEmitter) SetCond(cond string) {
	if _, ok := e.cursor.Step(OpCond); ok {
		e.sb.WriteString(cond)
		e.sb.WriteString(") {\n")
	}
}

// SetBlock 写入循环体
func (e *WhileEmitter) SetBlock(block string) {
	if _, ok := e.cursor.Step(OpBlock); ok {
		e.sb.WriteString(block)
		e.sb.WriteByte('}')
	}
}

// Generate 返回循环语句
func (e *WhileEmitter) Generate() string {
	if e.cursor.State() == StateStart {
		e.SetCond(undefinedExpr)
	}
	if e.cursor.State() == StateCond {
		e.SetBlock("")
	}
	return e.sb.String()
}

// ============================================================================
// 列表类发射器：调用、数组、哈希
// ============================================================================

var callTable = Table{
	{StateStart, OpName}:  StateName,
	{StateName, OpItem}:   StateItems,
	{StateItems, OpItem}:  StateItems,
	{StateName, OpClose}:  StateDone,
	{StateItems, OpClose}: StateDone,
}

// CallEmitter 函数调用发射器
//
// 合法顺序：SetCallee → AddArg*。
type CallEmitter struct {
	cursor Cursor
	sb     strings.Builder
}

// NewCallEmitter 创建调用发射器
func NewCallEmitter() *CallEmitter {
	return &CallEmitter{cursor: newCursor(callTable)}
}

// SetCallee 设置调用目标
func (e *CallEmitter) SetCallee(callee string) {
	if _, ok := e.cursor.Step(OpName); ok {
		e.sb.WriteString(callee)
		e.sb.WriteByte('(')
	}
}

// AddArg 追加一个实参
func (e *CallEmitter) AddArg(arg string) {
	from, ok := e.cursor.Step(OpItem)
	if !ok {
		return
	}
	if from == StateItems {
		e.sb.WriteString(", ")
	}
	e.sb.WriteString(arg)
}

// Generate 返回调用表达式
func (e *CallEmitter) Generate() string {
	if e.cursor.State() == StateStart {
		e.SetCallee(undefinedExpr)
	}
	if _, ok := e.cursor.Step(OpClose); ok {
		e.sb.WriteByte(')')
	}
	return e.sb.String()
}

var listTable = Table{
	{StateStart, OpItem}:  StateItems,
	{StateItems, OpItem}:  StateItems,
	{StateStart, OpClose}: StateDone,
	{StateItems, OpClose}: StateDone,
}

// ArrayEmitter 数组字面量发射器
type ArrayEmitter struct {
	cursor Cursor
	sb     strings.Builder
}

// NewArrayEmitter 创建数组发射器
func NewArrayEmitter() *ArrayEmitter {
	e := &ArrayEmitter{cursor: newCursor(listTable)}
	e.sb.WriteByte('[')
	return e
}

// AddElement 追加一个元素
func (e *ArrayEmitter) AddElement(elem string) {
	from, ok := e.cursor.Step(OpItem)
	if !ok {
		return
	}
	if from == StateItems {
		e.sb.WriteString(", ")
	}
	e.sb.WriteString(elem)
}

// Generate 返回数组字面量
func (e *ArrayEmitter) Generate() string {
	if _, ok := e.cursor.Step(OpClose); ok {
		e.sb.WriteByte(']')
	}
	return e.sb.String()
}

// HashEmitter 对象字面量发射器
type HashEmitter struct {
	cursor Cursor
	sb     strings.Builder
}

// NewHashEmitter 创建对象字面量发射器
func NewHashEmitter() *HashEmitter {
	e := &HashEmitter{cursor: newCursor(listTable)}
	e.sb.WriteByte('{')
	return e
}

// AddPair 追加一个键值对；computed 为 true 时键写成 [key]
func (e *HashEmitter) AddPair(key, value string, computed bool) {
	from, ok := e.cursor.Step(OpItem)
	if !ok {
		return
	}
	if from == StateItems {
		e.sb.WriteString(", ")
	}
	if computed {
		e.sb.WriteByte('[')
		e.sb.WriteString(key)
		e.sb.WriteByte(']')
	} else {
		e.sb.WriteString(key)
	}
	e.sb.WriteString(": ")
	e.sb.WriteString(value)
}

// Generate 返回对象字面量
func (e *HashEmitter) Generate() string {
	if _, ok := e.cursor.Step(OpClose); ok {
		e.sb.WriteByte('}')
	}
	return e.sb.String()
}
