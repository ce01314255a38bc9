package smpp

import "fmt"

// command_status 取值
const (
	StatusOK              = uint32(0x00000000) // ESME_ROK
	StatusInvMsgLen       = uint32(0x00000001) // ESME_RINVMSGLEN
	StatusInvCmdLen       = uint32(0x00000002) // ESME_RINVCMDLEN
	StatusInvCmdId        = uint32(0x00000003) // ESME_RINVCMDID
	StatusInvBndSts       = uint32(0x00000004) // ESME_RINVBNDSTS
	StatusAlyBnd          = uint32(0x00000005) // ESME_RALYBND
	StatusInvPrtFlg       = uint32(0x00000006) // ESME_RINVPRTFLG
	StatusInvRegDlvFlg    = uint32(0x00000007) // ESME_RINVREGDLVFLG
	StatusSysErr          = uint32(0x00000008) // ESME_RSYSERR
	StatusInvSrcAdr       = uint32(0x0000000A) // ESME_RINVSRCADR
	StatusInvDstAdr       = uint32(0x0000000B) // ESME_RINVDSTADR
	StatusInvMsgId        = uint32(0x0000000C) // ESME_RINVMSGID
	StatusBindFail        = uint32(0x0000000D) // ESME_RBINDFAIL
	StatusInvPaswd        = uint32(0x0000000E) // ESME_RINVPASWD
	StatusInvSysId        = uint32(0x0000000F) // ESME_RINVSYSID
	StatusMsgQFul         = uint32(0x00000014) // ESME_RMSGQFUL
	StatusInvSerTyp       = uint32(0x00000015) // ESME_RINVSERTYP
	StatusInvEsmClass     = uint32(0x00000043) // ESME_RINVESMCLASS
	StatusSubmitFail      = uint32(0x00000045) // ESME_RSUBMITFAIL
	StatusInvSrcTon       = uint32(0x00000048) // ESME_RINVSRCTON
	StatusInvSrcNpi       = uint32(0x00000049) // ESME_RINVSRCNPI
	StatusInvDstTon       = uint32(0x00000050) // ESME_RINVDSTTON
	StatusInvDstNpi       = uint32(0x00000051) // ESME_RINVDSTNPI
	StatusInvSysTyp       = uint32(0x00000053) // ESME_RINVSYSTYP
	StatusThrottled       = uint32(0x00000058) // ESME_RTHROTTLED
	StatusInvSched        = uint32(0x00000061) // ESME_RINVSCHED
	StatusInvExpiry       = uint32(0x00000062) // ESME_RINVEXPIRY
	StatusInvDftMsgId     = uint32(0x00000063) // ESME_RINVDFTMSGID
	StatusXTAppn          = uint32(0x00000064) // ESME_RX_T_APPN
	StatusXPAppn          = uint32(0x00000065) // ESME_RX_P_APPN
	StatusXRAppn          = uint32(0x00000066) // ESME_RX_R_APPN
	StatusQueryFail       = uint32(0x00000067) // ESME_RQUERYFAIL
	StatusInvOptParStream = uint32(0x000000C0) // ESME_RINVOPTPARSTREAM
	StatusOptParNotAllwd  = uint32(0x000000C1) // ESME_ROPTPARNOTALLWD
	StatusInvParLen       = uint32(0x000000C2) // ESME_RINVPARLEN
	StatusMissingOptParam = uint32(0x000000C3) // ESME_RMISSINGOPTPARAM
	StatusInvOptParamVal  = uint32(0x000000C4) // ESME_RINVOPTPARAMVAL
	StatusDeliveryFailure = uint32(0x000000FE) // ESME_RDELIVERYFAILURE
	StatusUnknownErr      = uint32(0x000000FF) // ESME_RUNKNOWNERR
)

var StatusMap = map[uint32]string{
	StatusOK:              "ESME_ROK",
	StatusInvMsgLen:       "ESME_RINVMSGLEN",
	StatusInvCmdLen:       "ESME_RINVCMDLEN",
	StatusInvCmdId:        "ESME_RINVCMDID",
	StatusInvBndSts:       "ESME_RINVBNDSTS",
	StatusAlyBnd:          "ESME_RALYBND",
	StatusInvPrtFlg:       "ESME_RINVPRTFLG",
	StatusInvRegDlvFlg:    "ESME_RINVREGDLVFLG",
	StatusSysErr:          "ESME_RSYSERR",
	StatusInvSrcAdr:       "ESME_RINVSRCADR",
	StatusInvDstAdr:       "ESME_RINVDSTADR",
	StatusInvMsgId:        "ESME_RINVMSGID",
	StatusBindFail:        "ESME_RBINDFAIL",
	StatusInvPaswd:        "ESME_RINVPASWD",
	StatusInvSysId:        "ESME_RINVSYSID",
	StatusMsgQFul:         "ESME_RMSGQFUL",
	StatusInvSerTyp:       "ESME_RINVSERTYP",
	StatusInvEsmClass:     "ESME_RINVESMCLASS",
	StatusSubmitFail:      "ESME_RSUBMITFAIL",
	StatusInvSrcTon:       "ESME_RINVSRCTON",
	StatusInvSrcNpi:       "ESME_RINVSRCNPI",
	StatusInvDstTon:       "ESME_RINVDSTTON",
	StatusInvDstNpi:       "ESME_RINVDSTNPI",
	StatusInvSysTyp:       "ESME_RINVSYSTYP",
	StatusThrottled:       "ESME_RTHROTTLED",
	StatusInvSched:        "ESME_RINVSCHED",
	StatusInvExpiry:       "ESME_RINVEXPIRY",
	StatusInvDftMsgId:     "ESME_RINVDFTMSGID",
	StatusXTAppn:          "ESME_RX_T_APPN",
	StatusXPAppn:          "ESME_RX_P_APPN",
	StatusXRAppn:          "ESME_RX_R_APPN",
	StatusQueryFail:       "ESME_RQUERYFAIL",
	StatusInvOptParStream: "ESME_RINVOPTPARSTREAM",
	StatusOptParNotAllwd:  "ESME_ROPTPARNOTALLWD",
	StatusInvParLen:       "ESME_RINVPARLEN",
	StatusMissingOptParam: "ESME_RMISSINGOPTPARAM",
	StatusInvOptParamVal:  "ESME_RINVOPTPARAMVAL",
	StatusDeliveryFailure: "ESME_RDELIVERYFAILURE",
	StatusUnknownErr:      "ESME_RUNKNOWNERR",
}

func StatusName(status uint32) string {
	if name, ok := StatusMap[status]; ok {
		return name
	}
	return fmt.Sprintf("0x%08x", status)
}
