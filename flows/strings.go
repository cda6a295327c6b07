package flows

// User-facing texts. The bot speaks Uzbek (Latin script).
const (
	msgWelcome         = "Assalomu alaykum, <b>%s</b>!\nBo'limni tanlang:"
	msgAccessDenied    = "Sizga botdan foydalanishga ruxsat berilmagan.\nAdministratorga murojaat qiling."
	msgChooseBranch    = "Filialni tanlang:"
	msgChooseDate      = "Sanani tanlang:"
	msgChooseProduct   = "<b>%s</b>\nMahsulotni tanlang:"
	msgEnterQuantity   = "<b>%s</b>\nMiqdorini kiriting (dona):"
	msgEnterPrice      = "<b>%s</b>\nNarxini kiriting (so'm):"
	msgEnterCement     = "Ishlatilgan sement miqdorini kiriting (tonna):"
	msgChooseWorkers   = "Ishchilarni belgilang (hamma hozir deb olingan):"
	msgChooseStatKind  = "Qaysi hisobot kerak?"
	msgChoosePeriod    = "Davrni tanlang:"
	msgChooseMonth     = "Oyni tanlang:"
	msgSaved           = "Saqlandi!"
	msgNoRecords       = "Bu davr uchun yozuvlar topilmadi."
	msgInvalidResponse = "Noto'g'ri javob"
	msgSomethingWrong  = "Xatolik yuz berdi. Birozdan so'ng qayta urinib ko'ring."
	msgFutureDate      = "Kelajak sanasini tanlab bo'lmaydi"
	msgPreparingReport = "Hisobot tayyorlanmoqda..."

	btnProduction = "Ishlab chiqarish"
	btnSales      = "Sotuv"
	btnBack       = "Orqaga"
	btnSave       = "Saqlash"
	btnReady      = "Tayyor"
	btnAddProduct = "Mahsulot qo'shish"
	btnWeekly     = "Haftalik"
	btnMonthly    = "Oylik"
	btnAllTime    = "Umumiy"
)

var monthButtons = [...]string{
	"Yanvar", "Fevral", "Mart", "Aprel", "May", "Iyun",
	"Iyul", "Avgust", "Sentabr", "Oktabr", "Noyabr", "Dekabr",
}
