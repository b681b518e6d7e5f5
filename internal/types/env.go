package types

// ============================================================================
// Env - 类型环境
// ============================================================================
//
// 按名称记录函数和标识符类型的侧表，支持嵌套作用域：
// 查询沿父作用域向上进行，声明只写入当前作用域。
//
// ============================================================================

// Env 类型环境
type Env struct {
	parent    *Env
	types     map[string]Type
	functions map[string]bool
}

// NewEnv 创建顶层类型环境
func NewEnv() *Env {
	return &Env{
		types:     make(map[string]Type),
		functions: make(map[string]bool),
	}
}

// Child 创建以 e 为父作用域的子环境
func (e *Env) Child() *Env {
	child := NewEnv()
	child.parent = e
	return child
}

// Clone 复制当前作用域的声明，父作用域共享
func (e *Env) Clone() *Env {
	clone := &Env{
		parent:    e.parent,
		types:     make(map[string]Type, len(e.types)),
		functions: make(map[string]bool, len(e.functions)),
	}
	for name, t := range e.types {
		clone.types[name] = t
	}
	for name := range e.functions {
		clone.functions[name] = true
	}
	return clone
}

// Parent 返回父作用域，顶层返回 nil
func (e *Env) Parent() *Env {
	return e.parent
}

// AddFunction 登记一个已知函数名
func (e *Env) AddFunction(name string) {
	e.functions[name] = true
}

// HasFunction 检查函数名是否已登记（包括父作用域）
func (e *Env) HasFunction(name string) bool {
	for env := e; env != nil; env = env.parent {
		if env.functions[name] {
			return true
		}
	}
	return false
}

// DeclareType 在当前作用域声明标识符的类型，覆盖同一作用域中的旧声明
func (e *Env) DeclareType(name string, t Type) {
	e.types[name] = t
}

// SetType 更新标识符的类型
//
// 写入声明该标识符的最近作用域；未声明时在当前作用域声明。
func (e *Env) SetType(name string, t Type) {
	for env := e; env != nil; env = env.parent {
		if _, ok := env.types[name]; ok {
			env.types[name] = t
			return
		}
	}
	e.types[name] = t
}

// Lookup 查找标识符的类型
func (e *Env) Lookup(name string) (Type, bool) {
	for env := e; env != nil; env = env.parent {
		if t, ok := env.types[name]; ok {
			return t, true
		}
	}
	return TUnknown, false
}

// GetType 返回标识符的类型，未知标识符为 Unknown
func (e *Env) GetType(name string) Type {
	t, _ := e.Lookup(name)
	return t
}

// CheckType 检查标识符的类型是否与 t 渐进相等
func (e *Env) CheckType(name string, t Type) bool {
	return e.GetType(name).Equal(t)
}
