package world

// ResultCode is the raw outcome of a primitive unit action.
type ResultCode string

const (
	ResultOK                 ResultCode = "OK"
	ResultNotInRange         ResultCode = "ERR_NOT_IN_RANGE"
	ResultNotOwner           ResultCode = "ERR_NOT_OWNER"
	ResultNoPath             ResultCode = "ERR_NO_PATH"
	ResultNameExists         ResultCode = "ERR_NAME_EXISTS"
	ResultBusy               ResultCode = "ERR_BUSY"
	ResultNotFound           ResultCode = "ERR_NOT_FOUND"
	ResultNotEnoughResources ResultCode = "ERR_NOT_ENOUGH_RESOURCES"
	ResultInvalidTarget      ResultCode = "ERR_INVALID_TARGET"
	ResultFull               ResultCode = "ERR_FULL"
	ResultInvalidArgs        ResultCode = "ERR_INVALID_ARGS"
	ResultTired              ResultCode = "ERR_TIRED"
	ResultNoBodypart         ResultCode = "ERR_NO_BODYPART"
)

func (r ResultCode) OK() bool {
	return r == ResultOK
}
