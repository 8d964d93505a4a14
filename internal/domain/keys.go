package domain

const (
	LabelProject  = "GCPProject"
	LabelInstance = "GCPInstance"
	LabelBucket   = "GCPBucket"

	RelHasInstance = "HAS_INSTANCE"
	RelHasBucket   = "HAS_BUCKET"
)

// ResourceKind 区分写入的资源类型。
type ResourceKind string

const (
	KindInstance ResourceKind = "instance"
	KindBucket   ResourceKind = "bucket"
)

// Label 返回资源类型对应的节点标签。
func (k ResourceKind) Label() string {
	switch k {
	case KindInstance:
		return LabelInstance
	case KindBucket:
		return LabelBucket
	default:
		return ""
	}
}

// RelType 返回项目指向该资源的关系类型。
func (k ResourceKind) RelType() string {
	switch k {
	case KindInstance:
		return RelHasInstance
	case KindBucket:
		return RelHasBucket
	default:
		return ""
	}
}
